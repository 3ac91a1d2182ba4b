package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupStatisticsRoutes(api fiber.Router, h *handlers.Handlers, approved []fiber.Handler) {
	stats := api.Group("/statistics", approved...)
	stats.Get("/summary", h.Statistics.Summary)
	stats.Get("/weekly", h.Statistics.Weekly)
	stats.Get("/period", h.Statistics.ByPeriod)
	stats.Get("/workers", h.Statistics.WorkerOverview)
}
