package middleware

import (
	"errors"
	"log"
	"strings"

	"agromart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CallerKey is the fiber locals key under which AuthRequired stores the
// resolved caller.
const CallerKey = "caller"

// AuthRequired is a Fiber middleware that verifies the bearer token and
// resolves the caller's identity and current role from the account store.
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

		caller, err := authService.ResolveCaller(parts[1])
		if err != nil {
			log.Printf("Caller resolution failed: %v", err)
			if errors.Is(err, services.ErrAccountNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Account no longer exists",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(CallerKey, *caller)

		return c.Next()
	}
}

// CallerFrom recovers the caller stored by AuthRequired.
func CallerFrom(c *fiber.Ctx) (services.Caller, bool) {
	caller, ok := c.Locals(CallerKey).(services.Caller)
	return caller, ok
}
