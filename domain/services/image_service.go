package services

import (
	"context"

	"inspection-api/domain/dto"
)

type UploadInput struct {
	CameraID  uint
	DatasetID *uint
	FileName  string
	Data      []byte
}

type ImageService interface {
	Upload(ctx context.Context, actor Requester, in UploadInput) (*dto.ImageResponse, error)
	GetDetail(ctx context.Context, imageID uint) (*dto.ImageResponse, error)
	MainData(ctx context.Context, requester Requester, filter dto.MainDataFilter) ([]*dto.ImageResponse, int64, error)
	UpdateStatus(ctx context.Context, actor Requester, imageID uint, status string) (*dto.ImageResponse, error)
	// Delete removes the rows in one transaction; object store failures come back as warnings
	Delete(ctx context.Context, actor Requester, imageIDs []uint) (*dto.DeleteImagesResult, error)
}

type CameraService interface {
	List(ctx context.Context) ([]dto.CameraResponse, error)
	Create(ctx context.Context, req *dto.CreateCameraRequest) (*dto.CameraResponse, error)
	SetActive(ctx context.Context, cameraID uint, active bool) (*dto.CameraResponse, error)
}
