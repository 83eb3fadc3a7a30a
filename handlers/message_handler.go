package handlers

import (
	"errors"

	"tradehub_backend/services"

	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	Messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

// SendMessageRequest defines the payload for sending a message. The sender is
// always taken from the authenticated session, never from the body.
type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	ProductID  *uint  `json:"product_id,omitempty"`
	Content    string `json:"content"`
}

// SendMessage - POST /api/messages
func (h *MessageHandler) SendMessage(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	senderID := c.Locals("user_id").(uint)

	msg, err := h.Messages.Send(senderID, req.ReceiverID, req.ProductID, req.Content)
	if err != nil {
		return messageError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": msg})
}

// GetConversation - GET /api/messages/conversation/:userId
// The path parameter is an identity key: a numeric user id or a login email.
func (h *MessageHandler) GetConversation(c *fiber.Ctx) error {
	other, err := h.Messages.ResolveUser(c.Params("userId"))
	if err != nil {
		return messageError(c, err)
	}

	userID := c.Locals("user_id").(uint)

	msgs, err := h.Messages.GetConversation(userID, other.ID)
	if err != nil {
		return messageError(c, err)
	}

	return c.JSON(fiber.Map{"data": msgs})
}

// GetInbox - GET /api/messages/inbox
func (h *MessageHandler) GetInbox(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	partners, err := h.Messages.GetInbox(userID)
	if err != nil {
		return messageError(c, err)
	}

	return c.JSON(fiber.Map{"data": partners})
}

// GetUnreadCount - GET /api/messages/unread-count
func (h *MessageHandler) GetUnreadCount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	count, err := h.Messages.UnreadCount(userID)
	if err != nil {
		return messageError(c, err)
	}

	return c.JSON(fiber.Map{"data": count})
}

// MarkRead - POST /api/messages/mark-read/:senderId
// Marks every message from the given sender to the caller as read. Nothing to
// mark is still success.
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	sender, err := h.Messages.ResolveUser(c.Params("senderId"))
	if err != nil {
		return messageError(c, err)
	}

	userID := c.Locals("user_id").(uint)

	affected, err := h.Messages.MarkRead(sender.ID, userID)
	if err != nil {
		return messageError(c, err)
	}

	return c.JSON(fiber.Map{"updated": affected})
}

// messageError maps service error classes to HTTP status codes.
func messageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
