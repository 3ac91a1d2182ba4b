package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/pkg/utils"
)

type CameraHandler struct {
	cameraService services.CameraService
}

func NewCameraHandler(cameraService services.CameraService) *CameraHandler {
	return &CameraHandler{cameraService: cameraService}
}

func (h *CameraHandler) List(c *fiber.Ctx) error {
	cameras, err := h.cameraService.List(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Cameras retrieved", cameras)
}

func (h *CameraHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCameraRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	camera, err := h.cameraService.Create(c.UserContext(), &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.CreatedResponse(c, "Camera created", camera)
}

func (h *CameraHandler) SetActive(c *fiber.Ctx) error {
	cameraID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid camera ID")
	}

	var req dto.SetCameraActiveRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	camera, err := h.cameraService.SetActive(c.UserContext(), cameraID, *req.IsActive)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Camera updated", camera)
}
