package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupImageRoutes(api fiber.Router, h *handlers.Handlers, approved, admin []fiber.Handler) {
	images := api.Group("/images")

	images.Post("/", chain(approved, h.Image.Upload)...)
	images.Delete("/", chain(admin, h.Image.Delete)...)
	// registered before /:id
	images.Get("/main-data", chain(approved, h.Image.MainData)...)

	images.Get("/:id", chain(approved, h.Image.GetDetail)...)
	images.Patch("/:id/status", chain(approved, h.Image.UpdateStatus)...)
	images.Put("/:id/annotations", chain(approved, h.Annotation.Reconcile)...)
}
