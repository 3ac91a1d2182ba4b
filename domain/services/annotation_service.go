package services

import (
	"context"

	"inspection-api/domain/dto"
)

type AnnotationService interface {
	// Reconcile replaces the active annotation set of an image with the submitted one
	Reconcile(ctx context.Context, editor Requester, imageID uint, req *dto.ReconcileRequest) ([]dto.AnnotationResponse, error)
}
