package handlers

import (
	"errors"

	"github.com/arenatv/backend/internal/application"
	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles HTTP requests for app settings
type SettingsHandler struct {
	service *application.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// Get returns the current app settings
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not load settings",
		})
	}
	return c.JSON(fiber.Map{
		"data": settings,
	})
}

// Update validates and persists new app settings
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var settings map[string]interface{}
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.service.UpdateSettings(settings); err != nil {
		if errors.Is(err, application.ErrInvalidSettings) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not save settings",
		})
	}

	return c.JSON(fiber.Map{
		"message": "settings updated",
	})
}
