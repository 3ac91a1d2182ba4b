package postgres

import (
	"context"

	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type DefectClassRepositoryImpl struct {
	db *gorm.DB
}

func NewDefectClassRepository(db *gorm.DB) repositories.DefectClassRepository {
	return &DefectClassRepositoryImpl{db: db}
}

func (r *DefectClassRepositoryImpl) ListActive(ctx context.Context) ([]models.DefectClass, error) {
	var classes []models.DefectClass
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("class_id ASC").
		Find(&classes).Error
	return classes, err
}

func (r *DefectClassRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.DefectClass, error) {
	var class models.DefectClass
	err := r.db.WithContext(ctx).Where("class_id = ?", id).First(&class).Error
	if err != nil {
		return nil, notFound(err, "defect class", id)
	}
	return &class, nil
}

func (r *DefectClassRepositoryImpl) GetByName(ctx context.Context, name string) (*models.DefectClass, error) {
	var class models.DefectClass
	err := r.db.WithContext(ctx).Where("class_name = ?", name).First(&class).Error
	if err != nil {
		return nil, notFound(err, "defect class", name)
	}
	return &class, nil
}

func (r *DefectClassRepositoryImpl) Create(ctx context.Context, class *models.DefectClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *DefectClassRepositoryImpl) Update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.DefectClass{}).Where("class_id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "defect class", id)
	}
	return nil
}

func (r *DefectClassRepositoryImpl) InactiveOrMissingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	err := r.db.WithContext(ctx).Model(&models.DefectClass{}).
		Where("class_id IN ? AND is_active = ?", ids, true).
		Pluck("class_id", &found).Error
	if err != nil {
		return nil, err
	}
	return missing(ids, found), nil
}
