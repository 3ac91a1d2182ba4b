package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"inspection-api/domain/services"
	wsinfra "inspection-api/infrastructure/websocket"
	"inspection-api/interfaces/api/middleware"
	websocketHandler "inspection-api/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, authService services.AuthService, hub *wsinfra.Hub) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	// Browsers cannot set headers on upgrade, so ?token= is accepted
	app.Use("/ws", middleware.ProtectedWithQueryToken(authService), middleware.RequireApproved(), wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
