package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/dto"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

const maxUploadBytes = 20 << 20

type ImageHandler struct {
	imageService services.ImageService
}

func NewImageHandler(imageService services.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// Upload stores a multipart "image" file for camera_id and runs detection on it
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	cameraID, err := strconv.ParseUint(c.FormValue("camera_id"), 10, 64)
	if err != nil || cameraID == 0 {
		return utils.ValidationErrorResponse(c, "camera_id is required")
	}

	var datasetID *uint
	if raw := c.FormValue("dataset_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.ValidationErrorResponse(c, "Invalid dataset_id")
		}
		id := uint(n)
		datasetID = &id
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return utils.ValidationErrorResponse(c, "image file is required")
	}
	if fh.Size > maxUploadBytes {
		return utils.ValidationErrorResponse(c, "image file is too large")
	}
	f, err := fh.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read upload", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read upload", err)
	}

	img, err := h.imageService.Upload(c.UserContext(), actor, services.UploadInput{
		CameraID:  uint(cameraID),
		DatasetID: datasetID,
		FileName:  fh.Filename,
		Data:      data,
	})
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.CreatedResponse(c, "Image uploaded", img)
}

func (h *ImageHandler) GetDetail(c *fiber.Ctx) error {
	imageID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid image ID")
	}

	img, err := h.imageService.GetDetail(c.UserContext(), imageID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Image retrieved", img)
}

// MainData lists images for the annotation workspace
func (h *ImageHandler) MainData(c *fiber.Ctx) error {
	requester, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var filter dto.MainDataFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid query parameters")
	}
	if err := utils.ValidateStruct(&filter); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	filter.ClassNames = splitList(c.Query("class_names"))

	images, total, err := h.imageService.MainData(c.UserContext(), requester, filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return utils.PaginatedResponse(c, "Images retrieved", images, utils.NewPaginationMeta(total, page, limit))
}

func (h *ImageHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	imageID, ok := paramID(c, "id")
	if !ok {
		return utils.ValidationErrorResponse(c, "Invalid image ID")
	}

	var req dto.UpdateImageStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	img, err := h.imageService.UpdateStatus(c.UserContext(), actor, imageID, req.Status)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Image status updated", img)
}

// Delete removes images with their annotations; object store failures are reported as warnings
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	actor, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var req dto.DeleteImagesRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid request body")
	}

	result, err := h.imageService.Delete(c.UserContext(), actor, req.ImageIDs)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Images deleted", result)
}

// splitList splits a comma separated query value, dropping blanks
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
