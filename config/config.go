package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server Settings
	AppPort string
	HOST    string

	// Database Settings
	DatabaseURL string // postgres DSN; when empty a local sqlite file is used
	SQLitePath  string

	// Redis Settings (optional, unread-count cache)
	RedisHost     string
	RedisPort     string
	RedisPassword string

	// JWT Settings
	JWTSecret string

	// CORS Settings
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but proceed even if it doesn't exist
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables only")
	}

	config := &Config{
		AppPort:     getEnv("PORT", "8080"),
		HOST:        getEnv("HOST", "0.0.0.0"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SQLITE_PATH", "tradehub.db"),

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		CORSAllowOrigins: []string{"*"},
		CORSAllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required values and logs warnings for optional ones.
func (c *Config) Validate() error {
	var missingEnvs []string

	if c.JWTSecret == "" {
		missingEnvs = append(missingEnvs, "JWT_SECRET")
	}

	if len(missingEnvs) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingEnvs, ", "))
	}

	if c.DatabaseURL == "" {
		log.Printf("Warning: DATABASE_URL is not set, falling back to SQLite file %s", c.SQLitePath)
	}
	if c.RedisHost == "" {
		log.Println("Warning: REDIS_HOST is not set, unread-count caching is disabled")
	}

	return nil
}

// GetRedisAddr returns the Redis address in the format host:port
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// getEnv retrieves the value of the environment variable named by the key.
// If the variable is not present, the defaultValue is returned.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
