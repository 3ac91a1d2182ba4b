package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

// SetupCatalogRoutes registers cameras and defect classes; reads need approval, writes need admin
func SetupCatalogRoutes(api fiber.Router, h *handlers.Handlers, approved, admin []fiber.Handler) {
	cameras := api.Group("/cameras")
	cameras.Get("/", chain(approved, h.Camera.List)...)
	cameras.Post("/", chain(admin, h.Camera.Create)...)
	cameras.Patch("/:id", chain(admin, h.Camera.SetActive)...)

	classes := api.Group("/defect-classes")
	classes.Get("/", chain(approved, h.DefectClass.List)...)
	classes.Post("/", chain(admin, h.DefectClass.Create)...)
	classes.Patch("/:id", chain(admin, h.DefectClass.Update)...)
	classes.Delete("/:id", chain(admin, h.DefectClass.Delete)...)
}
