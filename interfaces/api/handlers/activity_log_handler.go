package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	"inspection-api/pkg/utils"
)

type ActivityLogHandler struct {
	activityLogService services.ActivityLogService
}

func NewActivityLogHandler(activityLogService services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{activityLogService: activityLogService}
}

// GetActivityLogs returns audit entries, newest first
func (h *ActivityLogHandler) GetActivityLogs(c *fiber.Ctx) error {
	var req dto.ActivityLogListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid query parameters")
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 50
	}
	if req.Limit > 100 {
		req.Limit = 100
	}

	filter := repositories.ActivityLogFilter{
		ActivityType: models.ActivityType(req.ActivityType),
		ActorUserID:  req.ActorUserID,
		TargetType:   req.TargetType,
	}
	logs, total, err := h.activityLogService.List(c.UserContext(), filter, req.Page, req.Limit)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.PaginatedResponse(c, "Activity logs retrieved", dto.ActivityLogsToResponse(logs), utils.NewPaginationMeta(total, req.Page, req.Limit))
}

// GetRecentActivityLogs returns the latest entries for the dashboard
func (h *ActivityLogHandler) GetRecentActivityLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit > 100 {
		limit = 100
	}

	logs, err := h.activityLogService.GetRecent(c.UserContext(), limit)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Recent activity retrieved", dto.ActivityLogsToResponse(logs))
}

// GetActivityTypes returns all available activity types
func (h *ActivityLogHandler) GetActivityTypes(c *fiber.Ctx) error {
	types := make([]fiber.Map, 0, len(models.ActivityTypes))
	for _, t := range models.ActivityTypes {
		types = append(types, fiber.Map{"value": t, "category": activityCategory(t)})
	}
	return utils.SuccessResponse(c, "Activity types retrieved", types)
}

func activityCategory(t models.ActivityType) string {
	switch t {
	case models.ActivityImageUploaded, models.ActivityImageStatusChanged, models.ActivityImagesDeleted:
		return "image"
	case models.ActivityAnnotationsReconciled, models.ActivityDefectClassCreated,
		models.ActivityDefectClassUpdated, models.ActivityDefectClassDeleted:
		return "annotation"
	default:
		return "moderation"
	}
}
