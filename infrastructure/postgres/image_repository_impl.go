package postgres

import (
	"context"

	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type ImageRepositoryImpl struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) repositories.ImageRepository {
	return &ImageRepositoryImpl{db: db}
}

func (r *ImageRepositoryImpl) CreateWithAnnotations(ctx context.Context, image *models.Image, annotations []models.Annotation, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Camera", "Annotations").Create(image).Error; err != nil {
			return err
		}
		if len(annotations) > 0 {
			for i := range annotations {
				annotations[i].ImageID = image.ImageID
			}
			if err := tx.Omit("DefectClass", "User").Create(&annotations).Error; err != nil {
				return err
			}
		}
		if log != nil {
			return createLog(tx, log)
		}
		return nil
	})
}

func (r *ImageRepositoryImpl) GetByID(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).Where("image_id = ?", id).First(&image).Error
	if err != nil {
		return nil, notFound(err, "image", id)
	}
	return &image, nil
}

func (r *ImageRepositoryImpl) GetDetail(ctx context.Context, id uint) (*models.Image, error) {
	var image models.Image
	err := r.db.WithContext(ctx).
		Preload("Camera").
		Preload("Annotations", activeAnnotations).
		Preload("Annotations.DefectClass").
		Where("image_id = ?", id).
		First(&image).Error
	if err != nil {
		return nil, notFound(err, "image", id)
	}
	return &image, nil
}

func activeAnnotations(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("annotation_id ASC")
}

func (r *ImageRepositoryImpl) FindByIDs(ctx context.Context, ids []uint) ([]models.Image, error) {
	images := []models.Image{}
	if len(ids) == 0 {
		return images, nil
	}
	err := r.db.WithContext(ctx).Where("image_id IN ?", ids).Order("image_id ASC").Find(&images).Error
	return images, err
}

func (r *ImageRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status models.ImageStatus, log *models.ActivityLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Image{}).Where("image_id = ?", id).Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "image", id)
		}
		if log != nil {
			return createLog(tx, log)
		}
		return nil
	})
}

func (r *ImageRepositoryImpl) DeleteWithAnnotations(ctx context.Context, ids []uint, log *models.ActivityLog) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// active and soft deleted rows alike
		if err := tx.Where("image_id IN ?", ids).Delete(&models.Annotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id IN ?", ids).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		if log != nil {
			return createLog(tx, log)
		}
		return nil
	})
}

func (r *ImageRepositoryImpl) List(ctx context.Context, filter repositories.ImageFilter) ([]models.Image, int64, error) {
	images := []models.Image{}
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Image{})
	if filter.CameraIDs != nil {
		if len(filter.CameraIDs) == 0 {
			return images, 0, nil
		}
		query = query.Where("images.camera_id IN ?", filter.CameraIDs)
	}
	if filter.Status != "" {
		query = query.Where("images.status = ?", filter.Status)
	}
	if len(filter.ClassNames) > 0 || filter.MinConfidence != nil || filter.MaxConfidence != nil {
		sub := r.db.Table("annotations AS a").
			Select("a.image_id").
			Joins("JOIN defect_classes d ON d.class_id = a.class_id").
			Where("a.is_active = ? AND d.is_active = ?", true, true)
		if len(filter.ClassNames) > 0 {
			sub = sub.Where("d.class_name IN ?", filter.ClassNames)
		}
		if filter.MinConfidence != nil || filter.MaxConfidence != nil {
			sub = sub.Where("a.conf_score IS NOT NULL")
		}
		if filter.MinConfidence != nil {
			sub = sub.Where("a.conf_score >= ?", *filter.MinConfidence)
		}
		if filter.MaxConfidence != nil {
			sub = sub.Where("a.conf_score <= ?", *filter.MaxConfidence)
		}
		query = query.Where("images.image_id IN (?)", sub)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Camera").
		Preload("Annotations", activeAnnotations).
		Preload("Annotations.DefectClass").
		Order("images.date DESC").
		Order("images.image_id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&images).Error

	return images, total, err
}
