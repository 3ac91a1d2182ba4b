package serviceimpl

import (
	"context"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
)

type AdminServiceImpl struct {
	userRepo   repositories.UserRepository
	cameraRepo repositories.CameraRepository
}

func NewAdminService(userRepo repositories.UserRepository, cameraRepo repositories.CameraRepository) services.AdminService {
	return &AdminServiceImpl{
		userRepo:   userRepo,
		cameraRepo: cameraRepo,
	}
}

// AssignCameras replaces the camera set of a user with cameraIDs
func (s *AdminServiceImpl) AssignCameras(ctx context.Context, actor services.Requester, userID uint, cameraIDs []uint) (*dto.AssignCamerasResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	want := uniqueIDs(cameraIDs)
	absent, err := s.cameraRepo.MissingIDs(ctx, want)
	if err != nil {
		return nil, err
	}
	if len(absent) > 0 {
		return nil, apperrors.NotFound("camera", absent[0]).WithMeta("camera_ids", absent)
	}

	current, err := s.cameraRepo.AssignedCameraIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	added := nonNil(diffIDs(want, current))
	removed := nonNil(diffIDs(current, want))

	if len(added) > 0 || len(removed) > 0 {
		log := newActivity(actor, models.ActivityCamerasAssigned, "user", userID, "Cameras assigned", map[string]interface{}{
			"added":   added,
			"removed": removed,
		})
		if err := s.cameraRepo.ReplaceAssignments(ctx, userID, added, removed, log); err != nil {
			return nil, err
		}
	}

	assigned, err := s.cameraRepo.AssignedCameraIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Admin("cameras_assigned", "Camera assignment replaced", map[string]interface{}{
		"user_id": userID,
		"added":   len(added),
		"removed": len(removed),
	})
	return &dto.AssignCamerasResult{
		UserID:          userID,
		Username:        user.Name,
		AssignedCameras: assigned,
		Added:           added,
		Removed:         removed,
		Total:           len(assigned),
	}, nil
}

func (s *AdminServiceImpl) UserCameraStats(ctx context.Context, userID uint) (*dto.UserCameraStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.cameraRepo.AssignedCameraIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.cameraRepo.ImageCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	stats := &dto.UserCameraStats{
		UserID:   userID,
		Username: user.Name,
		Cameras:  cameraCounts(counts),
	}
	for _, c := range counts {
		stats.TotalImages += c.ImageCount
	}
	return stats, nil
}

func (s *AdminServiceImpl) TaskAssignmentStats(ctx context.Context) (*dto.TaskAssignmentStats, error) {
	cameras, err := s.cameraRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	assignedCameras, err := s.cameraRepo.CountAssignedCameras(ctx)
	if err != nil {
		return nil, err
	}
	totalImages, err := s.cameraRepo.CountImages(ctx, false)
	if err != nil {
		return nil, err
	}
	assignedImages, err := s.cameraRepo.CountImages(ctx, true)
	if err != nil {
		return nil, err
	}
	unassigned, err := s.cameraRepo.UnassignedImageCounts(ctx)
	if err != nil {
		return nil, err
	}
	workloads, err := s.cameraRepo.AnnotatorAssignments(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.TaskAssignmentStats{
		TotalCameras:       int64(len(cameras)),
		AssignedCameras:    assignedCameras,
		TotalImages:        totalImages,
		AssignedImages:     assignedImages,
		UnassignedCameras:  cameraCounts(unassigned),
		AnnotatorWorkloads: make([]dto.AnnotatorAssignment, 0, len(workloads)),
	}
	for _, w := range workloads {
		stats.AnnotatorWorkloads = append(stats.AnnotatorWorkloads, dto.AnnotatorAssignment{
			UserID:      w.UserID,
			Username:    w.UserName,
			Email:       w.Email,
			CameraCount: w.CameraCount,
			ImageCount:  w.ImageCount,
		})
	}
	return stats, nil
}

func cameraCounts(rows []repositories.CameraImageCount) []dto.CameraImageCount {
	out := make([]dto.CameraImageCount, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CameraImageCount{
			CameraID:   r.CameraID,
			LineName:   r.LineName,
			IsActive:   r.IsActive,
			ImageCount: r.ImageCount,
		})
	}
	return out
}

func nonNil(ids []uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return ids
}
