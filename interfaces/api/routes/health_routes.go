package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, healthHandler *handlers.HealthHandler, appName string) {
	app.Get("/health", healthHandler.Health)
	app.Get("/health/detailed", healthHandler.DetailedHealth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to " + appName,
			"version": "1.0.0",
			"docs":    "/api/v1",
			"health":  "/health",
		})
	})
}
