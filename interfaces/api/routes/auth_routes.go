package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/interfaces/api/handlers"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, protected, limiter fiber.Handler) {
	auth := api.Group("/auth")

	auth.Get("/me", protected, h.Auth.Me)
	auth.Post("/logout", h.Auth.Logout)

	// OAuth, provider is google or naver
	auth.Get("/:provider/login", limiter, h.Auth.Login)
	auth.Get("/:provider/callback", limiter, h.Auth.Callback)
}
