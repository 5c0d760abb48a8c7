package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the identity resolved by the gateway. The
// service never re-derives trust: X-User-ID, X-User-Role and X-Parent-ID are
// taken as authoritative.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		role := strings.ToUpper(strings.TrimSpace(c.Get("X-User-Role")))
		parentID := c.Get("X-Parent-ID")

		if userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}
		if role != "PARENT" && role != "CHILD" {
			log.Printf("❌ [USER_CTX] Unknown role %q on %s", role, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or unknown X-User-Role",
			})
		}

		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		c.Locals("parent_id", parentID)

		return c.Next()
	}
}
