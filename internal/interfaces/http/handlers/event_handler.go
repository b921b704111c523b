package handlers

import (
	"github.com/arenatv/backend/internal/application"
	"github.com/arenatv/backend/internal/domain"
	"github.com/arenatv/backend/internal/pkg/links"
	"github.com/gofiber/fiber/v2"
)

// EventHandler handles HTTP requests for sports events and link generation
type EventHandler struct {
	events   domain.EventRepository
	autolink *application.AutoLinkService
}

// NewEventHandler creates a new event handler
func NewEventHandler(events domain.EventRepository, autolink *application.AutoLinkService) *EventHandler {
	return &EventHandler{events: events, autolink: autolink}
}

// List returns stored events; ?active=true limits to active ones
func (h *EventHandler) List(c *fiber.Ctx) error {
	var (
		events []*domain.Event
		err    error
	)
	if c.QueryBool("active") {
		events, err = h.events.GetActive()
	} else {
		events, err = h.events.GetAll()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "could not load events",
		})
	}
	return c.JSON(fiber.Map{
		"data": events,
	})
}

// AutoLinkRequest names the league feed to reconcile
type AutoLinkRequest struct {
	Sport  string `json:"sport" validate:"required"`
	League string `json:"league" validate:"required"`
}

// AutoLink fetches one league's scoreboard and upserts the unknown events
// with generated links
func (h *EventHandler) AutoLink(c *fiber.Ctx) error {
	var req AutoLinkRequest
	if err := c.BodyParser(&req); err != nil || req.Sport == "" || req.League == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sport and league are required",
		})
	}

	linked, skipped, err := h.autolink.SyncLeague(c.Context(), domain.LeagueInfo{
		Sport:  req.Sport,
		League: req.League,
	})
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "feed unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"linked":  linked,
			"skipped": skipped,
		},
	})
}

// GenerateLinks returns the candidate playback URLs for a pairing;
// ?variants=true includes the reversed pairing as a fallback
func (h *EventHandler) GenerateLinks(c *fiber.Ctx) error {
	home := c.Query("home")
	away := c.Query("away")
	if home == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "home is required",
		})
	}

	if c.QueryBool("variants") {
		primary, reversed := links.AllVariants(home, away)
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"primary":  primary,
				"reversed": reversed,
			},
		})
	}

	return c.JSON(fiber.Map{
		"data": links.Generate(home, away),
	})
}
