package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AssignCameras replaces the camera set of a user
func (h *AdminHandler) AssignCameras(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid user ID")
	}

	var req dto.AssignCamerasRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	if req.CameraIDs == nil {
		req.CameraIDs = []uint{}
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	result, err := h.adminService.AssignCameras(c.UserContext(), actor, userID, req.CameraIDs)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Cameras assigned", result)
}

func (h *AdminHandler) UserCameraStats(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid user ID")
	}

	stats, err := h.adminService.UserCameraStats(c.UserContext(), userID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Camera statistics retrieved", stats)
}

func (h *AdminHandler) TaskAssignmentStats(c *fiber.Ctx) error {
	stats, err := h.adminService.TaskAssignmentStats(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Task assignment statistics retrieved", stats)
}
