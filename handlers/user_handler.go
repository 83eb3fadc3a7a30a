package handlers

import (
	"tradehub_backend/repository"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Users *repository.UserRepository
}

func NewUserHandler(users *repository.UserRepository) *UserHandler {
	return &UserHandler{Users: users}
}

// SearchUsers allows searching for users by username or email
func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter 'q' is required",
		})
	}

	currentUserID := c.Locals("user_id").(uint)

	users, err := h.Users.Search(query, currentUserID, 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not search users",
		})
	}

	return c.JSON(fiber.Map{
		"data": users,
	})
}
