package serviceimpl

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gorm.io/datatypes"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ImageServiceImpl struct {
	imageRepo  repositories.ImageRepository
	cameraRepo repositories.CameraRepository
	classRepo  repositories.DefectClassRepository
	store      services.ObjectStore
	inference  services.InferenceClient
	events     services.EventPublisher
	threshold  float64
	now        func() time.Time
}

func NewImageService(
	imageRepo repositories.ImageRepository,
	cameraRepo repositories.CameraRepository,
	classRepo repositories.DefectClassRepository,
	store services.ObjectStore,
	inference services.InferenceClient,
	events services.EventPublisher,
	threshold float64,
) services.ImageService {
	return &ImageServiceImpl{
		imageRepo:  imageRepo,
		cameraRepo: cameraRepo,
		classRepo:  classRepo,
		store:      store,
		inference:  inference,
		events:     publisherOrNoop(events),
		threshold:  threshold,
		now:        time.Now,
	}
}

func (s *ImageServiceImpl) Upload(ctx context.Context, actor services.Requester, in services.UploadInput) (*dto.ImageResponse, error) {
	if len(in.Data) == 0 {
		return nil, apperrors.Invalid("image file is required")
	}

	// Camera must exist and be active
	camera, err := s.cameraRepo.GetByID(ctx, in.CameraID)
	if err != nil {
		return nil, err
	}
	if !camera.IsActive {
		return nil, apperrors.Newf(apperrors.CodeInvalid, "camera %d is inactive", camera.CameraID)
	}

	// Only the header is decoded for dimensions
	cfg, format, err := image.DecodeConfig(bytes.NewReader(in.Data))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalid, "unsupported or corrupt image").WithMeta("file_name", in.FileName)
	}
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}

	// Store first, inference reads the image by URL
	key := fmt.Sprintf("%d/%s.%s", camera.CameraID, uuid.New().String(), ext)
	url, err := s.store.Put(ctx, key, in.Data, http.DetectContentType(in.Data))
	if err != nil {
		logger.StorageError("put_failed", "Failed to store image", err, map[string]interface{}{"key": key})
		return nil, apperrors.Upstream("object_store", err)
	}

	detections, err := s.inference.Predict(ctx, url)
	if err != nil {
		logger.InferenceError("predict_failed", "Inference failed for uploaded image", err, map[string]interface{}{"key": key})
		s.removeObject(ctx, key)
		return nil, apperrors.Upstream("inference", err)
	}

	annotations, err := s.modelAnnotations(ctx, detections)
	if err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	// Confident model output completes the image without review
	status := models.ImageStatusPending
	if s.autoComplete(annotations) {
		status = models.ImageStatusCompleted
	}

	img := &models.Image{
		FilePath:  url,
		Date:      s.now().UTC(),
		CameraID:  camera.CameraID,
		DatasetID: in.DatasetID,
		Status:    status,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}
	log := newActivity(actor, models.ActivityImageUploaded, "camera", camera.CameraID, "Image uploaded", map[string]interface{}{
		"key":        key,
		"status":     string(status),
		"detections": len(annotations),
	})
	// Image, model annotations and audit entry in one transaction
	if err := s.imageRepo.CreateWithAnnotations(ctx, img, annotations, log); err != nil {
		s.removeObject(ctx, key)
		return nil, err
	}

	detail, err := s.imageRepo.GetDetail(ctx, img.ImageID)
	if err != nil {
		return nil, err
	}

	logger.Storage("image_uploaded", "Image uploaded", map[string]interface{}{
		"image_id":   img.ImageID,
		"camera_id":  camera.CameraID,
		"status":     string(status),
		"detections": len(annotations),
	})
	s.events.Publish(services.EventImageUploaded, map[string]interface{}{
		"image_id":  img.ImageID,
		"camera_id": camera.CameraID,
		"status":    status,
	})
	return dto.ImageToResponse(detail), nil
}

// modelAnnotations maps detections onto active classes by id, then by name; others are dropped
func (s *ImageServiceImpl) modelAnnotations(ctx context.Context, detections []services.Detection) ([]models.Annotation, error) {
	if len(detections) == 0 {
		return nil, nil
	}
	classes, err := s.classRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]uint, len(classes))
	byName := make(map[string]uint, len(classes))
	for _, c := range classes {
		byID[c.ClassID] = c.ClassID
		byName[strings.ToLower(c.ClassName)] = c.ClassID
	}

	now := s.now().UTC()
	out := make([]models.Annotation, 0, len(detections))
	for _, d := range detections {
		classID, ok := byID[d.ClassID]
		if !ok {
			classID, ok = byName[strings.ToLower(d.ClassName)]
		}
		if !ok {
			logger.Warn(logger.CategoryInference, "unknown_class", "Dropping detection of unknown class", map[string]interface{}{
				"class_id":   d.ClassID,
				"class_name": d.ClassName,
			})
			continue
		}
		box := d.BoundingBox
		if err := box.Validate(); err != nil {
			logger.Warn(logger.CategoryInference, "invalid_box", "Dropping detection with invalid box", map[string]interface{}{"error": err.Error()})
			continue
		}
		conf := d.Confidence
		out = append(out, models.Annotation{
			ClassID:     classID,
			Date:        now,
			ConfScore:   &conf,
			BoundingBox: datatypes.NewJSONType(box),
			IsActive:    true,
		})
	}
	return out, nil
}

// autoComplete holds when there is at least one detection and all of them reach the threshold
func (s *ImageServiceImpl) autoComplete(annotations []models.Annotation) bool {
	if len(annotations) == 0 {
		return false
	}
	for _, a := range annotations {
		if a.ConfScore == nil || *a.ConfScore < s.threshold {
			return false
		}
	}
	return true
}

func (s *ImageServiceImpl) removeObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logger.StorageError("cleanup_failed", "Failed to remove stored object", err, map[string]interface{}{"key": key})
	}
}

func (s *ImageServiceImpl) GetDetail(ctx context.Context, imageID uint) (*dto.ImageResponse, error) {
	img, err := s.imageRepo.GetDetail(ctx, imageID)
	if err != nil {
		return nil, err
	}
	return dto.ImageToResponse(img), nil
}

func (s *ImageServiceImpl) MainData(ctx context.Context, requester services.Requester, filter dto.MainDataFilter) ([]*dto.ImageResponse, int64, error) {
	status := models.ImageStatus(filter.Status)
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.Newf(apperrors.CodeInvalid, "invalid status %q", filter.Status)
	}
	if filter.MinConfidence != nil && filter.MaxConfidence != nil && *filter.MinConfidence > *filter.MaxConfidence {
		return nil, 0, apperrors.Invalid("min_confidence must not exceed max_confidence")
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	q := repositories.ImageFilter{
		Status:        status,
		ClassNames:    filter.ClassNames,
		MinConfidence: filter.MinConfidence,
		MaxConfidence: filter.MaxConfidence,
		Offset:        (page - 1) * limit,
		Limit:         limit,
	}
	if requester.IsAnnotator() {
		ids, err := s.cameraRepo.AssignedCameraIDs(ctx, requester.UserID)
		if err != nil {
			return nil, 0, err
		}
		q.CameraIDs = ids
	}

	images, total, err := s.imageRepo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return dto.ImagesToResponse(images), total, nil
}

func (s *ImageServiceImpl) UpdateStatus(ctx context.Context, actor services.Requester, imageID uint, status string) (*dto.ImageResponse, error) {
	next := models.ImageStatus(status)
	if !next.Valid() {
		return nil, apperrors.Newf(apperrors.CodeInvalid, "invalid status %q", status)
	}

	current, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}

	log := newActivity(actor, models.ActivityImageStatusChanged, "image", imageID, "Image status changed", map[string]interface{}{
		"from": string(current.Status),
		"to":   string(next),
	})
	if err := s.imageRepo.UpdateStatus(ctx, imageID, next, log); err != nil {
		return nil, err
	}

	s.events.Publish(services.EventImageStatusChanged, map[string]interface{}{
		"image_id": imageID,
		"status":   next,
	})
	return s.GetDetail(ctx, imageID)
}

func (s *ImageServiceImpl) Delete(ctx context.Context, actor services.Requester, imageIDs []uint) (*dto.DeleteImagesResult, error) {
	ids := uniqueIDs(imageIDs)
	if len(ids) == 0 {
		return nil, apperrors.Invalid("image_ids is required")
	}

	images, err := s.imageRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make([]uint, 0, len(images))
	for _, img := range images {
		found = append(found, img.ImageID)
	}
	if absent := diffIDs(ids, found); len(absent) > 0 {
		return nil, apperrors.NotFound("image", absent[0]).WithMeta("image_ids", absent)
	}

	var target interface{} = ""
	if len(ids) == 1 {
		target = ids[0]
	}
	log := newActivity(actor, models.ActivityImagesDeleted, "image", target, fmt.Sprintf("%d images deleted", len(ids)), map[string]interface{}{
		"image_ids": ids,
	})
	if err := s.imageRepo.DeleteWithAnnotations(ctx, ids, log); err != nil {
		return nil, err
	}

	result := &dto.DeleteImagesResult{Deleted: ids, Warnings: []string{}}
	for _, img := range images {
		key, ok := s.store.KeyFromURL(img.FilePath)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("image %d: unrecognized object url %s", img.ImageID, img.FilePath))
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			logger.StorageError("delete_failed", "Failed to delete stored object", err, map[string]interface{}{"image_id": img.ImageID, "key": key})
			result.Warnings = append(result.Warnings, fmt.Sprintf("image %d: %v", img.ImageID, err))
		}
	}

	logger.Storage("images_deleted", "Images deleted", map[string]interface{}{
		"count":    len(ids),
		"warnings": len(result.Warnings),
	})
	s.events.Publish(services.EventImagesDeleted, map[string]interface{}{"image_ids": ids})
	return result, nil
}

// uniqueIDs drops zeros and duplicates, keeping first-seen order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diffIDs returns members of want absent from have
func diffIDs(want, have []uint) []uint {
	set := make(map[uint]struct{}, len(have))
	for _, id := range have {
		set[id] = struct{}{}
	}
	var out []uint
	for _, id := range want {
		if _, ok := set[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
