package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type CameraRepositoryImpl struct {
	db *gorm.DB
}

func NewCameraRepository(db *gorm.DB) repositories.CameraRepository {
	return &CameraRepositoryImpl{db: db}
}

func (r *CameraRepositoryImpl) List(ctx context.Context) ([]models.Camera, error) {
	var cameras []models.Camera
	err := r.db.WithContext(ctx).Order("camera_id ASC").Find(&cameras).Error
	return cameras, err
}

func (r *CameraRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Camera, error) {
	var camera models.Camera
	err := r.db.WithContext(ctx).Where("camera_id = ?", id).First(&camera).Error
	if err != nil {
		return nil, notFound(err, "camera", id)
	}
	return &camera, nil
}

func (r *CameraRepositoryImpl) Create(ctx context.Context, camera *models.Camera) error {
	return r.db.WithContext(ctx).Create(camera).Error
}

func (r *CameraRepositoryImpl) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.Camera{}).Where("camera_id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "camera", id)
	}
	return nil
}

func (r *CameraRepositoryImpl) MissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := r.db.WithContext(ctx).Model(&models.Camera{}).Where("camera_id IN ?", ids).Pluck("camera_id", &found).Error; err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}

func (r *CameraRepositoryImpl) AssignedCameraIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.UserCamera{}).
		Where("user_id = ?", userID).
		Order("camera_id ASC").
		Pluck("camera_id", &ids).Error
	return ids, err
}

func (r *CameraRepositoryImpl) ReplaceAssignments(ctx context.Context, userID uint, add, remove []uint, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(remove) > 0 {
			if err := tx.Where("user_id = ? AND camera_id IN ?", userID, remove).Delete(&models.UserCamera{}).Error; err != nil {
				return err
			}
		}
		if len(add) > 0 {
			now := time.Now().UTC()
			edges := make([]models.UserCamera, 0, len(add))
			for _, id := range add {
				edges = append(edges, models.UserCamera{UserID: userID, CameraID: id, CreatedAt: now})
			}
			if err := tx.Omit("User", "Camera").Create(&edges).Error; err != nil {
				return err
			}
		}
		if log != nil {
			return createLog(tx, log)
		}
		return nil
	})
}

func (r *CameraRepositoryImpl) ImageCounts(ctx context.Context, cameraIDs []uint) ([]repositories.CameraImageCount, error) {
	rows := []repositories.CameraImageCount{}
	if len(cameraIDs) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("cameras AS c").
		Select("c.camera_id, c.line_name, c.is_active, COUNT(i.image_id) AS image_count").
		Joins("LEFT JOIN images i ON i.camera_id = c.camera_id").
		Where("c.camera_id IN ?", cameraIDs).
		Group("c.camera_id, c.line_name, c.is_active").
		Order("c.camera_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CameraRepositoryImpl) UnassignedImageCounts(ctx context.Context) ([]repositories.CameraImageCount, error) {
	rows := []repositories.CameraImageCount{}
	assigned := r.db.Model(&models.UserCamera{}).Select("camera_id")
	err := r.db.WithContext(ctx).
		Table("cameras AS c").
		Select("c.camera_id, c.line_name, c.is_active, COUNT(i.image_id) AS image_count").
		Joins("LEFT JOIN images i ON i.camera_id = c.camera_id").
		Where("c.camera_id NOT IN (?)", assigned).
		Group("c.camera_id, c.line_name, c.is_active").
		Order("c.camera_id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *CameraRepositoryImpl) CountAssignedCameras(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserCamera{}).Distinct("camera_id").Count(&count).Error
	return count, err
}

func (r *CameraRepositoryImpl) CountImages(ctx context.Context, onlyAssigned bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Image{})
	if onlyAssigned {
		query = query.Where("camera_id IN (?)", r.db.Model(&models.UserCamera{}).Select("camera_id"))
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *CameraRepositoryImpl) AnnotatorAssignments(ctx context.Context) ([]repositories.AnnotatorAssignment, error) {
	rows := []repositories.AnnotatorAssignment{}
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.user_id, u.name AS user_name, u.email, COUNT(DISTINCT uc.camera_id) AS camera_count, COUNT(i.image_id) AS image_count").
		Joins("LEFT JOIN user_cameras uc ON uc.user_id = u.user_id").
		Joins("LEFT JOIN images i ON i.camera_id = uc.camera_id").
		Where("u.user_type = ? AND u.approval_status = ? AND u.is_active = ?", models.UserTypeAnnotator, models.ApprovalApproved, true).
		Group("u.user_id, u.name, u.email").
		Order("u.name ASC").
		Scan(&rows).Error
	return rows, err
}

// missing returns the members of want that are absent from have, in want order
func missing(want, have []uint) []uint {
	seen := make(map[uint]struct{}, len(have))
	for _, id := range have {
		seen[id] = struct{}{}
	}
	var out []uint
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
			seen[id] = struct{}{}
		}
	}
	return out
}
