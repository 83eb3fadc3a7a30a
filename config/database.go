package config

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database connection. PostgreSQL when DATABASE_URL is set,
// otherwise a local SQLite file for development.
func InitDB(cfg *Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}

	log.Printf("Opening SQLite database file %s", cfg.SQLitePath)
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

// InitRedis initializes the Redis client used for unread-count caching.
// Returns nil when Redis is unconfigured or unreachable; callers must treat a
// nil client as "cache disabled", never as an error.
func InitRedis(cfg *Config) *redis.Client {
	if cfg.RedisHost == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Printf("Connecting to Redis at %s...", cfg.GetRedisAddr())

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Warning: Application will continue without Redis caching")
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}
