package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

type DefectClassHandler struct {
	classService services.DefectClassService
}

func NewDefectClassHandler(classService services.DefectClassService) *DefectClassHandler {
	return &DefectClassHandler{classService: classService}
}

func (h *DefectClassHandler) List(c *fiber.Ctx) error {
	classes, err := h.classService.ListActive(c.UserContext())
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Defect classes retrieved", classes)
}

func (h *DefectClassHandler) Create(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var req dto.CreateDefectClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	class, err := h.classService.Create(c.UserContext(), actor, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.CreatedResponse(c, "Defect class saved", class)
}

func (h *DefectClassHandler) Update(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	classID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid class ID")
	}

	var req dto.UpdateDefectClassRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	class, err := h.classService.Update(c.UserContext(), actor, classID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Defect class updated", class)
}

// Delete deactivates the class; existing annotations keep their reference
func (h *DefectClassHandler) Delete(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	classID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid class ID")
	}

	if err := h.classService.Delete(c.UserContext(), actor, classID); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Defect class deleted", nil)
}
