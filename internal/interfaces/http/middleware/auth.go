package middleware

import (
	"strings"

	"github.com/arenatv/backend/internal/application"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates API tokens and subscription access
type AuthMiddleware struct {
	authService *application.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *application.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate validates the bearer token issued at login
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

// RequireAccess re-checks the subscription on every request so a deactivated
// or expired account loses access before its token does
func (m *AuthMiddleware) RequireAccess() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !m.authService.CheckAccess() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "subscription inactive or expired",
			})
		}
		return c.Next()
	}
}
