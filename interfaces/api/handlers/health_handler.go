package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inspection-api/domain/services"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *gorm.DB
	redis     goredis.UniversalClient
	inference services.InferenceClient
}

// NewHealthHandler creates a new health handler; redis and inference may be nil
func NewHealthHandler(db *gorm.DB, redis goredis.UniversalClient, inference services.InferenceClient) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, inference: inference}
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type DetailedHealthResponse struct {
	Status     string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// Health is the liveness probe
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// DetailedHealth checks every backing component. Only the database is critical.
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := DetailedHealthResponse{
		Timestamp: time.Now(),
		Components: map[string]ComponentHealth{
			"database":  h.checkDatabase(ctx),
			"redis":     h.checkRedis(ctx),
			"inference": h.checkInference(ctx),
		},
	}

	response.Status = "healthy"
	for name, comp := range response.Components {
		if comp.Status != "error" {
			continue
		}
		if name == "database" {
			response.Status = "unhealthy"
			break
		}
		response.Status = "degraded"
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}
	return c.Status(statusCode).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()
	if h.db == nil {
		return ComponentHealth{Status: "error", Message: "Database not configured"}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{Status: "error", Message: "Failed to get database connection: " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Database ping failed: " + err.Error()}
	}
	return ComponentHealth{Status: "ok", Message: "Connected", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()
	if h.redis == nil {
		return ComponentHealth{Status: "unavailable", Message: "Redis not configured"}
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return ComponentHealth{Status: "error", Message: "Redis ping failed: " + err.Error()}
	}
	return ComponentHealth{Status: "ok", Message: "Connected", Latency: time.Since(start).String()}
}

func (h *HealthHandler) checkInference(ctx context.Context) ComponentHealth {
	start := time.Now()
	if h.inference == nil {
		return ComponentHealth{Status: "unavailable", Message: "Inference not configured"}
	}
	if err := h.inference.Health(ctx); err != nil {
		return ComponentHealth{Status: "error", Message: "Inference health check failed: " + err.Error()}
	}
	return ComponentHealth{Status: "ok", Message: "Reachable", Latency: time.Since(start).String()}
}
