package repositories

import (
	"context"

	"inspection-api/domain/models"
)

type DefectClassRepository interface {
	ListActive(ctx context.Context) ([]models.DefectClass, error)
	GetByID(ctx context.Context, id uint) (*models.DefectClass, error)
	GetByName(ctx context.Context, name string) (*models.DefectClass, error)
	Create(ctx context.Context, class *models.DefectClass) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) error
	// InactiveOrMissingIDs returns the ids that are not active classes
	InactiveOrMissingIDs(ctx context.Context, ids []uint) ([]uint, error)
}
