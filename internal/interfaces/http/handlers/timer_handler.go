package handlers

import (
	"github.com/arenatv/backend/internal/application"
	"github.com/gofiber/fiber/v2"
)

// TimerHandler drives the device's single sleep timer
type TimerHandler struct {
	timer     *application.SleepTimer
	settings  *application.SettingsService
	onTimeout func()
}

// NewTimerHandler creates a new timer handler. onTimeout is invoked when a
// started countdown expires, typically to stop playback.
func NewTimerHandler(timer *application.SleepTimer, settings *application.SettingsService, onTimeout func()) *TimerHandler {
	return &TimerHandler{timer: timer, settings: settings, onTimeout: onTimeout}
}

// StartTimerRequest carries the countdown length. A zero or omitted Minutes
// falls back to the configured default.
type StartTimerRequest struct {
	Minutes int `json:"minutes" validate:"omitempty,min=1"`
}

// Status returns the remaining seconds of the running countdown
func (h *TimerHandler) Status(c *fiber.Ctx) error {
	remaining, active := h.timer.Remaining()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"is_active":      active,
			"remaining_time": remaining,
		},
	})
}

// Start begins a countdown, cancelling any running one first
func (h *TimerHandler) Start(c *fiber.Ctx) error {
	var req StartTimerRequest
	if err := c.BodyParser(&req); err != nil || req.Minutes < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "minutes must be positive",
		})
	}

	minutes := req.Minutes
	if minutes == 0 {
		minutes = h.settings.DefaultSleepMinutes()
	}

	h.timer.Start(minutes, h.onTimeout)
	remaining, _ := h.timer.Remaining()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"is_active":      true,
			"remaining_time": remaining,
		},
	})
}

// Cancel stops the running countdown without firing its callback
func (h *TimerHandler) Cancel(c *fiber.Ctx) error {
	h.timer.Cancel()
	return c.JSON(fiber.Map{
		"message": "sleep timer cancelled",
	})
}
