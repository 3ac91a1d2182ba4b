package services

import (
	"context"

	"inspection-api/domain/dto"
)

type DefectClassService interface {
	ListActive(ctx context.Context) ([]dto.DefectClassResponse, error)
	// Create reactivates an inactive class of the same name instead of inserting a duplicate
	Create(ctx context.Context, actor Requester, req *dto.CreateDefectClassRequest) (*dto.DefectClassResponse, error)
	Update(ctx context.Context, actor Requester, classID uint, req *dto.UpdateDefectClassRequest) (*dto.DefectClassResponse, error)
	Delete(ctx context.Context, actor Requester, classID uint) error
}
