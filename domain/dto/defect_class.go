package dto

import (
	"time"

	"inspection-api/domain/models"
)

type CreateDefectClassRequest struct {
	ClassName  string `json:"class_name" validate:"required,max=100"`
	ClassColor string `json:"class_color" validate:"required,hexcolor,len=7"`
}

type UpdateDefectClassRequest struct {
	ClassName  *string `json:"class_name" validate:"omitempty,min=1,max=100"`
	ClassColor *string `json:"class_color" validate:"omitempty,hexcolor,len=7"`
}

type DefectClassResponse struct {
	ClassID    uint      `json:"class_id"`
	ClassName  string    `json:"class_name"`
	ClassColor string    `json:"class_color"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func DefectClassToResponse(c *models.DefectClass) DefectClassResponse {
	return DefectClassResponse{
		ClassID:    c.ClassID,
		ClassName:  c.ClassName,
		ClassColor: c.ClassColor,
		IsActive:   c.IsActive,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
