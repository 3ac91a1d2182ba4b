package postgres

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type AnnotationRepositoryImpl struct {
	db *gorm.DB
}

func NewAnnotationRepository(db *gorm.DB) repositories.AnnotationRepository {
	return &AnnotationRepositoryImpl{db: db}
}

func (r *AnnotationRepositoryImpl) ActiveIDs(ctx context.Context, imageID uint) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.Annotation{}).
		Where("image_id = ? AND is_active = ?", imageID, true).
		Order("annotation_id ASC").
		Pluck("annotation_id", &ids).Error
	return ids, err
}

func (r *AnnotationRepositoryImpl) ListActiveByImage(ctx context.Context, imageID uint) ([]models.Annotation, error) {
	annotations := []models.Annotation{}
	err := r.db.WithContext(ctx).
		Preload("DefectClass").
		Where("image_id = ? AND is_active = ?", imageID, true).
		Order("annotation_id ASC").
		Find(&annotations).Error
	return annotations, err
}

func (r *AnnotationRepositoryImpl) Apply(ctx context.Context, plan repositories.ReconcilePlan) ([]uint, error) {
	deleted := []uint{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The active set is read in this transaction so rows added after the caller planned are deleted too
		active := []uint{}
		err := lockForUpdate(tx).Model(&models.Annotation{}).
			Where("image_id = ? AND is_active = ?", plan.ImageID, true).
			Order("annotation_id ASC").
			Pluck("annotation_id", &active).Error
		if err != nil {
			return err
		}

		kept := make(map[uint]struct{}, len(plan.KeepIDs))
		for _, id := range plan.KeepIDs {
			kept[id] = struct{}{}
		}
		current := make(map[uint]struct{}, len(active))
		for _, id := range active {
			current[id] = struct{}{}
			if _, ok := kept[id]; !ok {
				deleted = append(deleted, id)
			}
		}
		for _, id := range plan.KeepIDs {
			if _, ok := current[id]; !ok {
				return notFound(gorm.ErrRecordNotFound, "annotation", id)
			}
		}

		if len(deleted) > 0 {
			err := tx.Model(&models.Annotation{}).
				Where("image_id = ? AND annotation_id IN ?", plan.ImageID, deleted).
				Update("is_active", false).Error
			if err != nil {
				return err
			}
		}

		for _, edit := range plan.Edits {
			// conf_score is left untouched
			result := tx.Model(&models.Annotation{}).
				Where("annotation_id = ? AND image_id = ? AND is_active = ?", edit.AnnotationID, plan.ImageID, true).
				Updates(map[string]interface{}{
					"class_id":     edit.ClassID,
					"bounding_box": datatypes.NewJSONType(edit.BoundingBox),
					"date":         plan.Now,
					"user_id":      plan.EditorID,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return notFound(gorm.ErrRecordNotFound, "annotation", edit.AnnotationID)
			}
		}

		if len(plan.Inserts) > 0 {
			if err := tx.Omit("DefectClass", "User").Create(&plan.Inserts).Error; err != nil {
				return err
			}
		}

		if plan.Log != nil {
			if entry := plan.Log(deleted); entry != nil {
				return createLog(tx, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// lockForUpdate adds FOR UPDATE where the dialect has row locks; sqlite serializes writers anyway
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
