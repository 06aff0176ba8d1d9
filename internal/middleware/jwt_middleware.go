package middleware

import (
	"log"
	"strings"

	"majalah/internal/models"
	"majalah/internal/services"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthRequired is a Fiber middleware to check for a valid JWT token. The
// authenticated principal is stored in the request locals for handlers to
// pass explicitly into service operations.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		principal, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated principal stored by AuthRequired. The
// zero value is returned on unauthenticated routes.
func Principal(c *fiber.Ctx) models.Principal {
	p, _ := c.Locals(principalKey).(models.Principal)
	return p
}
