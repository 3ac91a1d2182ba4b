package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupUserRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler, admin []fiber.Handler) {
	// Pending users reach these before approval
	users := api.Group("/users", protected)
	users.Get("/me", h.User.GetProfile)
	users.Post("/me/profile", h.User.CompleteProfile)

	members := api.Group("/admin/members", admin...)
	members.Get("/", h.User.ListMembers)
	members.Patch("/:id/role", h.User.ChangeRole)
	members.Delete("/:id", h.User.DeactivateMember)

	pending := api.Group("/admin/pending-users", admin...)
	pending.Get("/", h.User.ListPending)
	pending.Post("/:id/decision", h.User.DecideApproval)
}
