package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

// RequestLogger logs one line per request; run after requestid
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = utils.StatusForError(err)
		}

		level := logger.LevelInfo
		switch {
		case status >= fiber.StatusInternalServerError:
			level = logger.LevelError
		case status >= fiber.StatusBadRequest:
			level = logger.LevelWarn
		}

		entry := logger.LogEntry{
			Level:    level,
			Category: logger.CategoryAPI,
			Action:   "request",
			Message:  c.Method() + " " + c.Path(),
			Data: map[string]interface{}{
				"status": status,
				"ip":     c.IP(),
			},
			Duration: time.Since(start).String(),
		}
		if id, ok := c.Locals("requestid").(string); ok {
			entry.RequestID = id
		}
		if user, ok := c.Locals("user").(*utils.UserContext); ok {
			entry.UserID = strconv.FormatUint(uint64(user.ID), 10)
		}
		logger.Request(entry)
		return err
	}
}
