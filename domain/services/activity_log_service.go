package services

import (
	"context"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type ActivityLogService interface {
	// Record writes an entry outside of any other transaction
	Record(ctx context.Context, log *models.ActivityLog) error

	// List returns activity logs newest first with pagination
	List(ctx context.Context, filter repositories.ActivityLogFilter, page, limit int) ([]models.ActivityLog, int64, error)

	// GetRecent returns the latest activity logs
	GetRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)

	// Cleanup deletes old activity logs
	Cleanup(ctx context.Context, days int) (int64, error)
}
