package websocket

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wsinfra "inspection-api/infrastructure/websocket"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

const writeWait = 10 * time.Second

type WebSocketHandler struct {
	hub *wsinfra.Hub
}

func NewWebSocketHandler(hub *wsinfra.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket pumps hub events to the connection until either side closes
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	var userID uint
	if user, ok := c.Locals("user").(*utils.UserContext); ok {
		userID = user.ID
	}

	client := h.hub.Register(userID)
	defer h.hub.Unregister(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range client.Outbound {
			_ = c.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.WriteJSON(msg); err != nil {
				logger.WebSocketError("write_message", "WebSocket write error", err, map[string]interface{}{"user_id": userID})
				_ = c.Close()
				return
			}
		}
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			logger.WebSocket("disconnected", "WebSocket client disconnected", map[string]interface{}{
				"user_id": userID,
				"reason":  err.Error(),
			})
			break
		}
		h.hub.HandleMessage(client, message)
	}

	h.hub.Unregister(client)
	<-done
}
