package http

import (
	"time"

	"github.com/arenatv/backend/internal/interfaces/http/handlers"
	"github.com/arenatv/backend/internal/interfaces/http/middleware"
	"github.com/arenatv/backend/internal/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Router holds all handlers and middleware
type Router struct {
	app             *fiber.App
	authHandler     *handlers.AuthHandler
	libraryHandler  *handlers.LibraryHandler
	eventHandler    *handlers.EventHandler
	timerHandler    *handlers.TimerHandler
	settingsHandler *handlers.SettingsHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	libraryHandler *handlers.LibraryHandler,
	eventHandler *handlers.EventHandler,
	timerHandler *handlers.TimerHandler,
	settingsHandler *handlers.SettingsHandler,
	authMiddleware *middleware.AuthMiddleware,
	serverConfig *config.ServerConfig,
) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  time.Duration(serverConfig.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(serverConfig.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(serverConfig.IdleTimeout) * time.Second,
		ServerHeader: "ArenaTV",
		AppName:      "ArenaTV API",
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} - ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       86400,
	}))

	return &Router{
		app:             app,
		authHandler:     authHandler,
		libraryHandler:  libraryHandler,
		eventHandler:    eventHandler,
		timerHandler:    timerHandler,
		settingsHandler: settingsHandler,
		authMiddleware:  authMiddleware,
	}
}

// SetupRoutes configures all routes
func (r *Router) SetupRoutes() {
	api := r.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
		})
	})

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/login", r.authHandler.Login)
	auth.Post("/logout", r.authHandler.Logout)

	// Protected routes
	protected := api.Group("")
	protected.Use(r.authMiddleware.Authenticate())

	// Auth (protected)
	protected.Get("/auth/me", r.authHandler.Me)
	protected.Get("/auth/access", r.authHandler.Access)

	// Content routes additionally require a live subscription
	content := protected.Group("", r.authMiddleware.RequireAccess())

	// Favorites
	favorites := content.Group("/favorites")
	favorites.Get("/", r.libraryHandler.ListFavorites)
	favorites.Post("/toggle", r.libraryHandler.ToggleFavorite)
	favorites.Delete("/", r.libraryHandler.ClearFavorites)

	// Watch history
	history := content.Group("/history")
	history.Get("/", r.libraryHandler.ListHistory)
	history.Post("/", r.libraryHandler.AddHistory)
	history.Delete("/:id", r.libraryHandler.RemoveHistory)
	history.Delete("/", r.libraryHandler.ClearHistory)

	// Events and link generation
	events := content.Group("/events")
	events.Get("/", r.eventHandler.List)
	events.Post("/autolink", r.eventHandler.AutoLink)
	content.Get("/links", r.eventHandler.GenerateLinks)

	// Sleep timer (single device-local timer)
	timer := content.Group("/player/timer")
	timer.Get("/", r.timerHandler.Status)
	timer.Post("/start", r.timerHandler.Start)
	timer.Post("/cancel", r.timerHandler.Cancel)

	// Settings
	settings := protected.Group("/settings")
	settings.Get("/", r.settingsHandler.Get)
	settings.Put("/", r.settingsHandler.Update)
}

// Start starts the HTTP server
func (r *Router) Start(addr string) error {
	return r.app.Listen(addr)
}

// Shutdown gracefully shuts down the server
func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
