package repositories

import (
	"context"
	"time"

	"inspection-api/domain/models"
)

type AnnotationEdit struct {
	AnnotationID uint
	ClassID      uint
	BoundingBox  models.BoundingBox
}

// ReconcilePlan is the validated submission for one image. Every active annotation of
// the image that is not in KeepIDs is soft deleted when the plan is applied.
type ReconcilePlan struct {
	ImageID  uint
	EditorID uint
	Now      time.Time
	KeepIDs  []uint
	Edits    []AnnotationEdit
	Inserts  []models.Annotation
	// Log builds the audit entry once the deleted ids are known
	Log func(deleted []uint) *models.ActivityLog
}

type AnnotationRepository interface {
	ActiveIDs(ctx context.Context, imageID uint) ([]uint, error)
	ListActiveByImage(ctx context.Context, imageID uint) ([]models.Annotation, error)
	// Apply reads the active set, soft deletes, edits and inserts in one transaction
	// and returns the ids it soft deleted
	Apply(ctx context.Context, plan ReconcilePlan) ([]uint, error)
}
