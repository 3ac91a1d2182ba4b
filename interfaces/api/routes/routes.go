package routes

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/services"
	wsinfra "inspection-api/infrastructure/websocket"
	"inspection-api/interfaces/api/handlers"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/config"
)

// Deps are the collaborators routes need besides handlers
type Deps struct {
	AuthService services.AuthService
	Hub         *wsinfra.Hub
	// LimiterStorage backs rate limit counters; nil keeps them in memory
	LimiterStorage fiber.Storage
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, deps Deps, cfg *config.Config) {
	SetupHealthRoutes(app, h.Health, cfg.App.Name)

	api := app.Group("/api/v1", middleware.RateLimiter(&cfg.RateLimit, deps.LimiterStorage))

	protected := middleware.Protected(deps.AuthService)
	approved := []fiber.Handler{protected, middleware.RequireApproved()}
	admin := []fiber.Handler{protected, middleware.AdminOnly()}

	SetupAuthRoutes(api, h, protected, middleware.AuthRateLimiter(&cfg.RateLimit, deps.LimiterStorage))
	SetupUserRoutes(api, h, protected, admin)
	SetupCatalogRoutes(api, h, approved, admin)
	SetupImageRoutes(api, h, approved, admin)
	SetupStatisticsRoutes(api, h, approved)
	SetupAdminRoutes(api, h, admin)
	SetupActivityLogRoutes(api, h, admin)
	SetupLogRoutes(api, h, admin)

	SetupWebSocketRoutes(app, deps.AuthService, deps.Hub)
}

// chain appends the handler to a middleware list
func chain(mw []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	out = append(out, mw...)
	return append(out, handler)
}
