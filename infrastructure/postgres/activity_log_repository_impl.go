package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type ActivityLogRepositoryImpl struct {
	db *gorm.DB
}

func NewActivityLogRepository(db *gorm.DB) repositories.ActivityLogRepository {
	return &ActivityLogRepositoryImpl{db: db}
}

// createLog writes an audit entry on tx, so callers can make it part of their own transaction.
func createLog(tx *gorm.DB, entry *models.ActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return tx.Create(entry).Error
}

func (r *ActivityLogRepositoryImpl) Create(ctx context.Context, entry *models.ActivityLog) error {
	return createLog(r.db.WithContext(ctx), entry)
}

func applyLogFilter(db *gorm.DB, f repositories.ActivityLogFilter) *gorm.DB {
	if f.ActivityType != "" {
		db = db.Where("activity_type = ?", f.ActivityType)
	}
	if f.ActorUserID != nil {
		db = db.Where("actor_user_id = ?", *f.ActorUserID)
	}
	if f.TargetType != "" {
		db = db.Where("target_type = ?", f.TargetType)
	}
	return db
}

func (r *ActivityLogRepositoryImpl) List(ctx context.Context, filter repositories.ActivityLogFilter, offset, limit int) ([]models.ActivityLog, int64, error) {
	base := applyLogFilter(r.db.WithContext(ctx).Model(&models.ActivityLog{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	logs := []models.ActivityLog{}
	if total == 0 {
		return logs, 0, nil
	}
	err := base.Order("created_at DESC, id").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}

func (r *ActivityLogRepositoryImpl) GetRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	logs, _, err := r.List(ctx, repositories.ActivityLogFilter{}, 0, limit)
	return logs, err
}

// DeleteOlderThan purges entries created more than days ago and reports how many went.
func (r *ActivityLogRepositoryImpl) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.ActivityLog{})
	return res.RowsAffected, res.Error
}
