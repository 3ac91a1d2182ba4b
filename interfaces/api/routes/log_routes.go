package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

// SetupLogRoutes sets up the application log viewer
func SetupLogRoutes(api fiber.Router, h *handlers.Handlers, admin []fiber.Handler) {
	logs := api.Group("/admin/logs", admin...)

	logs.Get("/", h.Log.GetLogs)
	logs.Get("/files", h.Log.GetLogFiles)
	logs.Get("/stats", h.Log.GetLogStats)
}
