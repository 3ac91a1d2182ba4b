package repositories

import (
	"context"

	"inspection-api/domain/models"
)

type ImageFilter struct {
	Status        models.ImageStatus
	ClassNames    []string
	MinConfidence *float64
	MaxConfidence *float64
	// CameraIDs restricts the listing when set; an empty non-nil slice matches nothing
	CameraIDs []uint
	Offset    int
	Limit     int
}

type ImageRepository interface {
	// CreateWithAnnotations inserts the image and its model annotations in one transaction
	CreateWithAnnotations(ctx context.Context, image *models.Image, annotations []models.Annotation, log *models.ActivityLog) error
	GetByID(ctx context.Context, id uint) (*models.Image, error)
	// GetDetail loads the image with its active annotations and their classes
	GetDetail(ctx context.Context, id uint) (*models.Image, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Image, error)
	UpdateStatus(ctx context.Context, id uint, status models.ImageStatus, log *models.ActivityLog) error
	// DeleteWithAnnotations removes every annotation of the images, then the images, in one transaction
	DeleteWithAnnotations(ctx context.Context, ids []uint, log *models.ActivityLog) error
	List(ctx context.Context, filter ImageFilter) ([]models.Image, int64, error)
}
