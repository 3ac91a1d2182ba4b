package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"inspection-api/pkg/logger"
)

const outboundBuffer = 32

// Message is the envelope pushed to every connected client
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one live connection
type Client struct {
	ID       uuid.UUID
	UserID   uint
	Outbound chan Message
}

// Hub fans events out to connected clients
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		now:     time.Now,
	}
}

func (h *Hub) Register(userID uint) *Client {
	c := &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Outbound: make(chan Message, outboundBuffer),
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.WebSocket("client_registered", "WebSocket client registered", map[string]interface{}{
		"client_id": c.ID.String(),
		"user_id":   userID,
		"clients":   total,
	})
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Outbound)
	}
	h.mu.Unlock()
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish never blocks; a client with a full buffer misses the event
func (h *Hub) Publish(event string, payload interface{}) {
	msg := Message{Type: event, Data: payload, Timestamp: h.now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.Outbound <- msg:
		default:
			logger.Warn(logger.CategoryWebSocket, "message_dropped", "Dropping message; outbound buffer full", map[string]interface{}{
				"client_id": c.ID.String(),
				"type":      event,
			})
		}
	}
}

// HandleMessage answers client frames; only ping is understood
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var in struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		logger.Debug(logger.CategoryWebSocket, "invalid_frame", "Ignoring malformed frame", map[string]interface{}{"client_id": c.ID.String()})
		return
	}
	if in.Type == "ping" {
		select {
		case c.Outbound <- Message{Type: "pong", Timestamp: h.now().UTC()}:
		default:
		}
	}
}
