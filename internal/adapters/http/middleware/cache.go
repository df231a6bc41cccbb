package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// NoCacheHeaders marks API responses as not storable. Reference data and
// permissions change under admin control, so clients always refetch.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}
