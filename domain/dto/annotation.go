package dto

import (
	"time"

	"inspection-api/domain/models"
)

type AnnotationDraft struct {
	ClassID     uint                `json:"class_id" validate:"required"`
	BoundingBox *models.BoundingBox `json:"bounding_box" validate:"required"`
}

// AnnotationEdit never carries a confidence score
type AnnotationEdit struct {
	AnnotationID uint                `json:"annotation_id" validate:"required"`
	ClassID      uint                `json:"class_id" validate:"required"`
	BoundingBox  *models.BoundingBox `json:"bounding_box" validate:"required"`
}

type ReconcileRequest struct {
	New      []AnnotationDraft `json:"new" validate:"dive"`
	Existing []AnnotationEdit  `json:"existing" validate:"dive"`
}

type AnnotationResponse struct {
	AnnotationID uint               `json:"annotation_id"`
	ImageID      uint               `json:"image_id"`
	ClassID      uint               `json:"class_id"`
	ClassName    string             `json:"class_name"`
	ClassColor   string             `json:"class_color"`
	Date         time.Time          `json:"date"`
	ConfScore    *float64           `json:"conf_score"`
	BoundingBox  models.BoundingBox `json:"bounding_box"`
	UserID       *uint              `json:"user_id"`
	IsActive     bool               `json:"is_active"`
}

func AnnotationToResponse(a *models.Annotation) AnnotationResponse {
	return AnnotationResponse{
		AnnotationID: a.AnnotationID,
		ImageID:      a.ImageID,
		ClassID:      a.ClassID,
		ClassName:    a.DefectClass.ClassName,
		ClassColor:   a.DefectClass.ClassColor,
		Date:         a.Date,
		ConfScore:    a.ConfScore,
		BoundingBox:  a.Box(),
		UserID:       a.UserID,
		IsActive:     a.IsActive,
	}
}

func AnnotationsToResponse(list []models.Annotation) []AnnotationResponse {
	result := make([]AnnotationResponse, len(list))
	for i := range list {
		result[i] = AnnotationToResponse(&list[i])
	}
	return result
}
