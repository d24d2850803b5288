package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/comanda/pkg/config"
)

// RateLimit bounds requests per client. When by_user is set and the
// auth middleware already ran, the authenticated user id keys the
// bucket; anonymous traffic falls back to the source IP.
func RateLimit(cfg config.RateLimitingConfig) fiber.Handler {
	max := 100
	if cfg.MaxRequests > 0 {
		max = cfg.MaxRequests
	}
	window := time.Minute
	if cfg.Window > 0 {
		window = cfg.Window
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if cfg.ByUser {
				if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
					return userID
				}
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded",
			})
		},
	})
}
