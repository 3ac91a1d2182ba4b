package repositories

import (
	"context"

	"inspection-api/domain/models"
)

type ActivityLogFilter struct {
	ActivityType models.ActivityType
	ActorUserID  *uint
	TargetType   string
}

type ActivityLogRepository interface {
	// Create a new activity log
	Create(ctx context.Context, log *models.ActivityLog) error

	// List logs newest first with pagination
	List(ctx context.Context, filter ActivityLogFilter, offset, limit int) ([]models.ActivityLog, int64, error)

	// Get recent logs (for admin dashboard)
	GetRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)

	// Delete old logs (cleanup)
	DeleteOlderThan(ctx context.Context, days int) (int64, error)
}
