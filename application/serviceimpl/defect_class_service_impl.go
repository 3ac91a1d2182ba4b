package serviceimpl

import (
	"context"
	"strings"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

type DefectClassServiceImpl struct {
	classRepo       repositories.DefectClassRepository
	activityLogRepo repositories.ActivityLogRepository
}

func NewDefectClassService(classRepo repositories.DefectClassRepository, activityLogRepo repositories.ActivityLogRepository) services.DefectClassService {
	return &DefectClassServiceImpl{
		classRepo:       classRepo,
		activityLogRepo: activityLogRepo,
	}
}

func (s *DefectClassServiceImpl) ListActive(ctx context.Context) ([]dto.DefectClassResponse, error) {
	classes, err := s.classRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DefectClassResponse, 0, len(classes))
	for i := range classes {
		out = append(out, dto.DefectClassToResponse(&classes[i]))
	}
	return out, nil
}

func (s *DefectClassServiceImpl) Create(ctx context.Context, actor services.Requester, req *dto.CreateDefectClassRequest) (*dto.DefectClassResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.ClassName)
	color := strings.ToLower(req.ClassColor)

	existing, err := s.classRepo.GetByName(ctx, name)
	switch {
	case err == nil && existing.IsActive:
		return nil, apperrors.Newf(apperrors.CodeConflict, "defect class %q already exists", name).WithMeta("class_id", existing.ClassID)
	case err == nil:
		// reactivate instead of inserting a second row with the same name
		if err := s.classRepo.Update(ctx, existing.ClassID, map[string]interface{}{
			"is_active":   true,
			"class_color": color,
		}); err != nil {
			return nil, err
		}
		return s.recordAndLoad(ctx, actor, existing.ClassID, models.ActivityDefectClassCreated, "Defect class reactivated")
	case !apperrors.IsCode(err, apperrors.CodeNotFound):
		return nil, err
	}

	class := &models.DefectClass{
		ClassName:  name,
		ClassColor: color,
		IsActive:   true,
	}
	if err := s.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return s.recordAndLoad(ctx, actor, class.ClassID, models.ActivityDefectClassCreated, "Defect class created")
}

func (s *DefectClassServiceImpl) Update(ctx context.Context, actor services.Requester, classID uint, req *dto.UpdateDefectClassRequest) (*dto.DefectClassResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if !class.IsActive {
		return nil, apperrors.NotFound("defect class", classID)
	}

	updates := map[string]interface{}{}
	if req.ClassName != nil {
		name := strings.TrimSpace(*req.ClassName)
		if name != class.ClassName {
			other, err := s.classRepo.GetByName(ctx, name)
			if err == nil && other.ClassID != classID {
				return nil, apperrors.Newf(apperrors.CodeConflict, "defect class %q already exists", name).WithMeta("class_id", other.ClassID)
			}
			if err != nil && !apperrors.IsCode(err, apperrors.CodeNotFound) {
				return nil, err
			}
			updates["class_name"] = name
		}
	}
	if req.ClassColor != nil {
		updates["class_color"] = strings.ToLower(*req.ClassColor)
	}
	if len(updates) == 0 {
		resp := dto.DefectClassToResponse(class)
		return &resp, nil
	}

	if err := s.classRepo.Update(ctx, classID, updates); err != nil {
		return nil, err
	}
	return s.recordAndLoad(ctx, actor, classID, models.ActivityDefectClassUpdated, "Defect class updated")
}

// Delete only deactivates; annotations keep pointing at the class
func (s *DefectClassServiceImpl) Delete(ctx context.Context, actor services.Requester, classID uint) error {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if !class.IsActive {
		return apperrors.NotFound("defect class", classID)
	}
	if err := s.classRepo.Update(ctx, classID, map[string]interface{}{"is_active": false}); err != nil {
		return err
	}
	recordActivity(ctx, s.activityLogRepo, newActivity(actor, models.ActivityDefectClassDeleted, "defect_class", classID, "Defect class deleted", map[string]interface{}{
		"class_name": class.ClassName,
	}))
	logger.Admin("defect_class_deleted", "Defect class deactivated", map[string]interface{}{"class_id": classID})
	return nil
}

func (s *DefectClassServiceImpl) recordAndLoad(ctx context.Context, actor services.Requester, classID uint, activity models.ActivityType, message string) (*dto.DefectClassResponse, error) {
	class, err := s.classRepo.GetByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	recordActivity(ctx, s.activityLogRepo, newActivity(actor, activity, "defect_class", classID, message, map[string]interface{}{
		"class_name":  class.ClassName,
		"class_color": class.ClassColor,
	}))
	logger.Admin(string(activity), message, map[string]interface{}{"class_id": classID})
	resp := dto.DefectClassToResponse(class)
	return &resp, nil
}
