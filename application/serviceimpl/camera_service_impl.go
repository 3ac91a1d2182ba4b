package serviceimpl

import (
	"context"
	"strings"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/utils"
)

type CameraServiceImpl struct {
	cameraRepo repositories.CameraRepository
}

func NewCameraService(cameraRepo repositories.CameraRepository) services.CameraService {
	return &CameraServiceImpl{cameraRepo: cameraRepo}
}

func (s *CameraServiceImpl) List(ctx context.Context) ([]dto.CameraResponse, error) {
	cameras, err := s.cameraRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CameraResponse, 0, len(cameras))
	for i := range cameras {
		out = append(out, dto.CameraToResponse(&cameras[i]))
	}
	return out, nil
}

func (s *CameraServiceImpl) Create(ctx context.Context, req *dto.CreateCameraRequest) (*dto.CameraResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	camera := &models.Camera{
		LineName: strings.TrimSpace(req.LineName),
		IsActive: true,
	}
	if camera.LineName == "" {
		return nil, apperrors.Invalid("line_name is required")
	}
	if err := s.cameraRepo.Create(ctx, camera); err != nil {
		return nil, err
	}
	resp := dto.CameraToResponse(camera)
	return &resp, nil
}

func (s *CameraServiceImpl) SetActive(ctx context.Context, cameraID uint, active bool) (*dto.CameraResponse, error) {
	if err := s.cameraRepo.SetActive(ctx, cameraID, active); err != nil {
		return nil, err
	}
	camera, err := s.cameraRepo.GetByID(ctx, cameraID)
	if err != nil {
		return nil, err
	}
	resp := dto.CameraToResponse(camera)
	return &resp, nil
}
