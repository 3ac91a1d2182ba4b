package serviceimpl

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	"inspection-api/pkg/logger"
)

type ActivityLogServiceImpl struct {
	activityLogRepo repositories.ActivityLogRepository
}

func NewActivityLogService(activityLogRepo repositories.ActivityLogRepository) services.ActivityLogService {
	return &ActivityLogServiceImpl{
		activityLogRepo: activityLogRepo,
	}
}

func (s *ActivityLogServiceImpl) Record(ctx context.Context, log *models.ActivityLog) error {
	return s.activityLogRepo.Create(ctx, log)
}

func (s *ActivityLogServiceImpl) List(ctx context.Context, filter repositories.ActivityLogFilter, page, limit int) ([]models.ActivityLog, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return s.activityLogRepo.List(ctx, filter, offset, limit)
}

func (s *ActivityLogServiceImpl) GetRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return s.activityLogRepo.GetRecent(ctx, limit)
}

func (s *ActivityLogServiceImpl) Cleanup(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	return s.activityLogRepo.DeleteOlderThan(ctx, days)
}

// newActivity builds an audit entry; details are stored as JSON
func newActivity(actor services.Requester, activity models.ActivityType, targetType string, targetID any, message string, details map[string]interface{}) *models.ActivityLog {
	log := &models.ActivityLog{
		ActivityType: activity,
		TargetType:   targetType,
		TargetID:     fmt.Sprint(targetID),
		Message:      message,
	}
	if actor.UserID != 0 {
		id := actor.UserID
		log.ActorUserID = &id
	}
	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err != nil {
			logger.Warn(logger.CategoryAdmin, "activity_details", "Failed to encode activity details", map[string]interface{}{"error": err.Error()})
		} else {
			log.Details = datatypes.JSON(raw)
		}
	}
	return log
}

// recordActivity writes an entry outside of the caller's transaction; failures are logged only
func recordActivity(ctx context.Context, repo repositories.ActivityLogRepository, log *models.ActivityLog) {
	if repo == nil || log == nil {
		return
	}
	if err := repo.Create(ctx, log); err != nil {
		logger.Error(logger.CategoryAdmin, "activity_record_failed", "Failed to record activity", err, map[string]interface{}{"activity_type": string(log.ActivityType)})
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, interface{}) {}

func publisherOrNoop(p services.EventPublisher) services.EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
