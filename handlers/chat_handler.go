package handlers

import (
	"log"

	"tradehub_backend/internal/ws"
	"tradehub_backend/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ChatHandler struct {
	Hub      *ws.Hub
	Messages *services.MessageService
}

func NewChatHandler(hub *ws.Hub, messages *services.MessageService) *ChatHandler {
	return &ChatHandler{
		Hub:      hub,
		Messages: messages,
	}
}

// WebSocketUpgradeMiddleware ensures the client is trying to upgrade to WebSocket
func (h *ChatHandler) WebSocketUpgradeMiddleware(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler returns the websocket handler function. The connection is bound once
// to the identity the auth middleware verified; every message sent over it
// uses that identity as the sender.
func (h *ChatHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			log.Println("Invalid or missing User ID in WebSocket connection")
			c.Close()
			return
		}

		client := &ws.Client{
			Hub:      h.Hub,
			Conn:     c,
			Send:     make(chan []byte, 256),
			UserID:   userID,
			ConnID:   uuid.NewString(),
			Messages: h.Messages,
		}

		client.Hub.Register <- client

		// Start Pumps
		go client.WritePump()
		client.ReadPump()
	})
}
