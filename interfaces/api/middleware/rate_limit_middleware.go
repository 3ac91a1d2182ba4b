package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"inspection-api/pkg/config"
	"inspection-api/pkg/logger"
)

type limitRule struct {
	bucket  string
	max     int
	window  time.Duration
	code    string
	message string
}

// RateLimiter applies the general per-IP budget. A nil storage keeps counters in process memory.
func RateLimiter(cfg *config.RateLimitConfig, storage fiber.Storage) fiber.Handler {
	return newLimiter(cfg.Enabled, storage, limitRule{
		bucket:  "api",
		max:     cfg.MaxRequests,
		window:  time.Duration(cfg.WindowSeconds) * time.Second,
		code:    "rate_limit_exceeded",
		message: "Too many requests. Please try again later.",
	})
}

// AuthRateLimiter is the stricter budget in front of the OAuth endpoints
func AuthRateLimiter(cfg *config.RateLimitConfig, storage fiber.Storage) fiber.Handler {
	return newLimiter(cfg.Enabled, storage, limitRule{
		bucket:  "auth",
		max:     cfg.AuthMaxRequests,
		window:  time.Duration(cfg.AuthWindowSeconds) * time.Second,
		code:    "auth_rate_limit_exceeded",
		message: "Too many authentication attempts. Please try again later.",
	})
}

func newLimiter(enabled bool, storage fiber.Storage, rule limitRule) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        rule.max,
		Expiration: rule.window,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return rule.bucket + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn(logger.CategoryAPI, "rate_limit", "Request budget exhausted", map[string]interface{}{
				"bucket": rule.bucket,
				"ip":     c.IP(),
				"path":   c.Path(),
			})
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": rule.message,
				"error":   rule.code,
			})
		},
	})
}
