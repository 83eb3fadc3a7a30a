package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tradehub_backend/config"
	"tradehub_backend/handlers"
	"tradehub_backend/internal/ws"
	"tradehub_backend/middleware"
	"tradehub_backend/repository"
	"tradehub_backend/services"
	"tradehub_backend/utils"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	config.SeedUsers(db)

	rdb := config.InitRedis(cfg)

	// Repositories
	messageRepo := repository.NewMessageRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)

	// WebSocket hub: delivers pushed messages to every live connection of a
	// user. Runs for the lifetime of the process.
	hub := ws.NewHub()
	go hub.Run()

	// Services
	messageSvc := services.NewMessageService(messageRepo, userRepo, productRepo, hub, rdb)

	// Handlers
	authHandler := handlers.NewAuthHandler(db)
	userHandler := handlers.NewUserHandler(userRepo)
	productHandler := handlers.NewProductHandler(productRepo)
	messageHandler := handlers.NewMessageHandler(messageSvc)
	chatHandler := handlers.NewChatHandler(hub, messageSvc)

	app := fiber.New(fiber.Config{
		AppName:      "TradeHub Backend",
		ServerHeader: "TradeHub Backend Server/1.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Default 500 statuscode
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			// Retrieve the custom statuscode if it's a *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": msg,
			})
		},
	})

	middleware.SetupMiddleware(app)

	// Health Check Endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "success",
			"message": "API is healthy",
		})
	})

	// Auth routes
	app.Post("/api/auth/register", authHandler.Register)
	app.Post("/api/auth/login", authHandler.Login)

	// Protected API routes
	api := app.Group("/api", utils.AuthMiddleware)
	api.Get("/users/search", userHandler.SearchUsers)

	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products", productHandler.GetAllProducts)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Get("/categories", productHandler.GetCategories)

	api.Post("/messages", messageHandler.SendMessage)
	api.Get("/messages/conversation/:userId", messageHandler.GetConversation)
	api.Get("/messages/inbox", messageHandler.GetInbox)
	api.Get("/messages/unread-count", messageHandler.GetUnreadCount)
	api.Post("/messages/mark-read/:senderId", messageHandler.MarkRead)

	// WebSocket endpoint. Auth middleware binds the identity before upgrade.
	app.Use("/ws", utils.AuthMiddleware, chatHandler.WebSocketUpgradeMiddleware)
	app.Get("/ws/chat", chatHandler.Handler())

	middleware.SetupErrorHandler(app)

	go func() {
		log.Printf("Server starting on host %s in port %s", cfg.HOST, cfg.AppPort)
		if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}

	if rdb != nil {
		rdb.Close()
	}

	log.Println("Server gracefully stopped")
}
