package dto

import (
	"time"

	"inspection-api/domain/models"
)

type ImageResponse struct {
	ImageID     uint                 `json:"image_id"`
	FilePath    string               `json:"file_path"`
	Date        time.Time            `json:"date"`
	CameraID    uint                 `json:"camera_id"`
	LineName    string               `json:"line_name,omitempty"`
	DatasetID   *uint                `json:"dataset_id"`
	Status      models.ImageStatus   `json:"status"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Annotations []AnnotationResponse `json:"annotations"`
}

func ImageToResponse(img *models.Image) *ImageResponse {
	if img == nil {
		return nil
	}
	return &ImageResponse{
		ImageID:     img.ImageID,
		FilePath:    img.FilePath,
		Date:        img.Date,
		CameraID:    img.CameraID,
		LineName:    img.Camera.LineName,
		DatasetID:   img.DatasetID,
		Status:      img.Status,
		Width:       img.Width,
		Height:      img.Height,
		Annotations: AnnotationsToResponse(img.Annotations),
	}
}

func ImagesToResponse(images []models.Image) []*ImageResponse {
	result := make([]*ImageResponse, len(images))
	for i := range images {
		result[i] = ImageToResponse(&images[i])
	}
	return result
}

// MainDataFilter selects images for the annotation workspace
type MainDataFilter struct {
	Status        string   `query:"status"`
	ClassNames    []string `query:"-"`
	MinConfidence *float64 `query:"min_confidence" validate:"omitempty,gte=0,lte=1"`
	MaxConfidence *float64 `query:"max_confidence" validate:"omitempty,gte=0,lte=1"`
	Page          int      `query:"page"`
	Limit         int      `query:"limit"`
}

type UpdateImageStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type DeleteImagesRequest struct {
	ImageIDs []uint `json:"image_ids" validate:"required,min=1"`
}

type DeleteImagesResult struct {
	Deleted  []uint   `json:"deleted"`
	Warnings []string `json:"warnings"`
}

type CameraResponse struct {
	CameraID uint   `json:"camera_id"`
	LineName string `json:"line_name"`
	IsActive bool   `json:"is_active"`
}

func CameraToResponse(c *models.Camera) CameraResponse {
	return CameraResponse{CameraID: c.CameraID, LineName: c.LineName, IsActive: c.IsActive}
}

type CreateCameraRequest struct {
	LineName string `json:"line_name" validate:"required,max=100"`
}

type SetCameraActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}
