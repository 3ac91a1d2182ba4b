package services

import (
	"context"

	"inspection-api/domain/dto"
)

type AdminService interface {
	AssignCameras(ctx context.Context, actor Requester, userID uint, cameraIDs []uint) (*dto.AssignCamerasResult, error)
	UserCameraStats(ctx context.Context, userID uint) (*dto.UserCameraStats, error)
	TaskAssignmentStats(ctx context.Context) (*dto.TaskAssignmentStats, error)
}
