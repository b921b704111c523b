package handlers

import (
	"github.com/arenatv/backend/internal/application"
	"github.com/arenatv/backend/internal/domain"
	"github.com/gofiber/fiber/v2"
)

// LibraryHandler handles HTTP requests for favorites and watch history
type LibraryHandler struct {
	favorites *application.FavoritesService
	history   *application.HistoryService
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(favorites *application.FavoritesService, history *application.HistoryService) *LibraryHandler {
	return &LibraryHandler{favorites: favorites, history: history}
}

// ListFavorites returns the favorites, optionally filtered by media type
func (h *LibraryHandler) ListFavorites(c *fiber.Ctx) error {
	if t := c.Query("type"); t != "" {
		return c.JSON(fiber.Map{
			"data": h.favorites.FilterByType(domain.MediaType(t)),
		})
	}
	return c.JSON(fiber.Map{
		"data": h.favorites.List(),
	})
}

// ToggleFavorite adds the item when absent and removes it when present
func (h *LibraryHandler) ToggleFavorite(c *fiber.Ctx) error {
	var item domain.FavoriteItem
	if err := c.BodyParser(&item); err != nil || item.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid favorite item",
		})
	}

	favorited := h.favorites.Toggle(item)
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"id":        item.ID,
			"favorited": favorited,
		},
	})
}

// ClearFavorites removes all favorites
func (h *LibraryHandler) ClearFavorites(c *fiber.Ctx) error {
	h.favorites.Clear()
	return c.JSON(fiber.Map{
		"message": "favorites cleared",
	})
}

// ListHistory returns the watch history, most recent first
func (h *LibraryHandler) ListHistory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"data": h.history.List(),
	})
}

// AddHistory records a playback
func (h *LibraryHandler) AddHistory(c *fiber.Ctx) error {
	var item domain.WatchHistoryItem
	if err := c.BodyParser(&item); err != nil || item.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid history item",
		})
	}

	h.history.Add(item)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id": item.ID,
		},
	})
}

// RemoveHistory deletes one history entry
func (h *LibraryHandler) RemoveHistory(c *fiber.Ctx) error {
	h.history.Remove(c.Params("id"))
	return c.JSON(fiber.Map{
		"message": "history entry removed",
	})
}

// ClearHistory removes all history entries
func (h *LibraryHandler) ClearHistory(c *fiber.Ctx) error {
	h.history.Clear()
	return c.JSON(fiber.Map{
		"message": "history cleared",
	})
}
