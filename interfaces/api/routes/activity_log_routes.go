package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupActivityLogRoutes(api fiber.Router, h *handlers.Handlers, admin []fiber.Handler) {
	activity := api.Group("/admin/activity-logs", admin...)

	activity.Get("/types", h.ActivityLog.GetActivityTypes)
	activity.Get("/recent", h.ActivityLog.GetRecentActivityLogs)
	activity.Get("/", h.ActivityLog.GetActivityLogs)
}
