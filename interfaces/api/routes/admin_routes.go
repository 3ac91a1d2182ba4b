package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupAdminRoutes(api fiber.Router, h *handlers.Handlers, admin []fiber.Handler) {
	a := api.Group("/admin/assignments", admin...)
	a.Get("/", h.Admin.TaskAssignmentStats)
	a.Get("/users/:id", h.Admin.UserCameraStats)
	a.Put("/users/:id", h.Admin.AssignCameras)
}
