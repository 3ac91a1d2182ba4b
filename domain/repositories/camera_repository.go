package repositories

import (
	"context"

	"inspection-api/domain/models"
)

type CameraImageCount struct {
	CameraID   uint
	LineName   string
	IsActive   bool
	ImageCount int64
}

type AnnotatorAssignment struct {
	UserID      uint
	UserName    string
	Email       string
	CameraCount int64
	ImageCount  int64
}

type CameraRepository interface {
	List(ctx context.Context) ([]models.Camera, error)
	GetByID(ctx context.Context, id uint) (*models.Camera, error)
	Create(ctx context.Context, camera *models.Camera) error
	SetActive(ctx context.Context, id uint, active bool) error
	// MissingIDs returns the ids that have no camera row
	MissingIDs(ctx context.Context, ids []uint) ([]uint, error)

	AssignedCameraIDs(ctx context.Context, userID uint) ([]uint, error)
	// ReplaceAssignments adds and removes edges and records the activity entry in one transaction
	ReplaceAssignments(ctx context.Context, userID uint, add, remove []uint, log *models.ActivityLog) error

	ImageCounts(ctx context.Context, cameraIDs []uint) ([]CameraImageCount, error)
	UnassignedImageCounts(ctx context.Context) ([]CameraImageCount, error)
	CountAssignedCameras(ctx context.Context) (int64, error)
	CountImages(ctx context.Context, onlyAssigned bool) (int64, error)
	AnnotatorAssignments(ctx context.Context) ([]AnnotatorAssignment, error)
}
