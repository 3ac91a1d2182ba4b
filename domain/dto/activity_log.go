package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"inspection-api/domain/models"
)

// ActivityLogResponse represents an activity log entry
type ActivityLogResponse struct {
	ID           uuid.UUID `json:"id"`
	ActorUserID  *uint     `json:"actorUserId"`
	ActivityType string    `json:"activityType"`
	TargetType   string    `json:"targetType,omitempty"`
	TargetID     string    `json:"targetId,omitempty"`
	Message      string    `json:"message"`
	Details      any       `json:"details,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActivityLogListRequest represents a request to list activity logs
type ActivityLogListRequest struct {
	ActivityType string `query:"activityType"`
	ActorUserID  *uint  `query:"actorUserId"`
	TargetType   string `query:"targetType"`
	Page         int    `query:"page"`
	Limit        int    `query:"limit"`
}

// ActivityLogToResponse converts a model to response DTO
func ActivityLogToResponse(log *models.ActivityLog) *ActivityLogResponse {
	resp := &ActivityLogResponse{
		ID:           log.ID,
		ActorUserID:  log.ActorUserID,
		ActivityType: string(log.ActivityType),
		TargetType:   log.TargetType,
		TargetID:     log.TargetID,
		Message:      log.Message,
		CreatedAt:    log.CreatedAt,
	}

	if len(log.Details) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(log.Details, &details); err == nil {
			resp.Details = details
		}
	}

	return resp
}

// ActivityLogsToResponse converts a slice of models to response DTOs
func ActivityLogsToResponse(logs []models.ActivityLog) []*ActivityLogResponse {
	result := make([]*ActivityLogResponse, len(logs))
	for i := range logs {
		result[i] = ActivityLogToResponse(&logs[i])
	}
	return result
}
