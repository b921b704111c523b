package handlers

import (
	"errors"

	"github.com/arenatv/backend/internal/application"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for the session gate
type AuthHandler struct {
	service *application.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *application.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest represents login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	session, token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		status := fiber.StatusUnauthorized
		switch {
		case errors.Is(err, application.ErrUserNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, application.ErrVerification):
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": session,
			"token":   token,
		},
	})
}

// Logout clears the persisted session
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.service.Logout()
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

// Me returns the current session
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session := h.service.CurrentSession()
	if session == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "no active session",
		})
	}
	return c.JSON(fiber.Map{
		"data": session,
	})
}

// Access re-evaluates activation and expiry of the held session
func (h *AuthHandler) Access(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"has_access": h.service.CheckAccess(),
		},
	})
}
