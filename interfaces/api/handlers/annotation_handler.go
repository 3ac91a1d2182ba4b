package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

type AnnotationHandler struct {
	annotationService services.AnnotationService
}

func NewAnnotationHandler(annotationService services.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{annotationService: annotationService}
}

// Reconcile replaces the active annotations of an image and returns the new set
func (h *AnnotationHandler) Reconcile(c *fiber.Ctx) error {
	editor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	imageID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid image ID")
	}

	var req dto.ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}
	if err := utils.ValidateStruct(&req); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	annotations, err := h.annotationService.Reconcile(c.UserContext(), editor, imageID, &req)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Annotations saved", annotations)
}
