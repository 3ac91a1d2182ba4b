package serviceimpl

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
)

type AnnotationServiceImpl struct {
	imageRepo      repositories.ImageRepository
	annotationRepo repositories.AnnotationRepository
	classRepo      repositories.DefectClassRepository
	events         services.EventPublisher
	now            func() time.Time
}

func NewAnnotationService(
	imageRepo repositories.ImageRepository,
	annotationRepo repositories.AnnotationRepository,
	classRepo repositories.DefectClassRepository,
	events services.EventPublisher,
) services.AnnotationService {
	return &AnnotationServiceImpl{
		imageRepo:      imageRepo,
		annotationRepo: annotationRepo,
		classRepo:      classRepo,
		events:         publisherOrNoop(events),
		now:            time.Now,
	}
}

func (s *AnnotationServiceImpl) Reconcile(ctx context.Context, editor services.Requester, imageID uint, req *dto.ReconcileRequest) ([]dto.AnnotationResponse, error) {
	if req == nil {
		return nil, apperrors.Invalid("annotation payload is required")
	}
	if _, err := s.imageRepo.GetByID(ctx, imageID); err != nil {
		return nil, err
	}

	// Early ownership check; Apply re-reads the active set inside its transaction
	before, err := s.annotationRepo.ActiveIDs(ctx, imageID)
	if err != nil {
		return nil, err
	}
	active := make(map[uint]struct{}, len(before))
	for _, id := range before {
		active[id] = struct{}{}
	}

	// Validate edits: owned by this image, submitted once, with a full box
	classIDs := make([]uint, 0, len(req.Existing)+len(req.New))
	keep := make([]uint, 0, len(req.Existing))
	kept := make(map[uint]struct{}, len(req.Existing))
	edits := make([]repositories.AnnotationEdit, 0, len(req.Existing))
	for _, e := range req.Existing {
		if _, ok := active[e.AnnotationID]; !ok {
			return nil, apperrors.NotFound("annotation", e.AnnotationID).WithMeta("image_id", imageID)
		}
		if _, dup := kept[e.AnnotationID]; dup {
			return nil, apperrors.Newf(apperrors.CodeInvalid, "annotation %d submitted more than once", e.AnnotationID)
		}
		if err := checkBox(e.BoundingBox); err != nil {
			return nil, err.WithMeta("annotation_id", e.AnnotationID)
		}
		kept[e.AnnotationID] = struct{}{}
		keep = append(keep, e.AnnotationID)
		classIDs = append(classIDs, e.ClassID)
		edits = append(edits, repositories.AnnotationEdit{
			AnnotationID: e.AnnotationID,
			ClassID:      e.ClassID,
			BoundingBox:  *e.BoundingBox,
		})
	}
	for _, d := range req.New {
		if err := checkBox(d.BoundingBox); err != nil {
			return nil, err
		}
		classIDs = append(classIDs, d.ClassID)
	}

	// Every referenced class must be active
	unknown, err := s.classRepo.InactiveOrMissingIDs(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	if len(unknown) > 0 {
		return nil, apperrors.NotFound("defect class", unknown[0]).WithMeta("class_ids", unknown)
	}

	// Human inserts carry no confidence
	now := s.now().UTC()
	editorID := editor.UserID
	inserts := make([]models.Annotation, 0, len(req.New))
	for _, d := range req.New {
		inserts = append(inserts, models.Annotation{
			ImageID:     imageID,
			ClassID:     d.ClassID,
			Date:        now,
			ConfScore:   nil,
			BoundingBox: datatypes.NewJSONType(*d.BoundingBox),
			UserID:      &editorID,
			IsActive:    true,
		})
	}

	plan := repositories.ReconcilePlan{
		ImageID:  imageID,
		EditorID: editorID,
		Now:      now,
		KeepIDs:  keep,
		Edits:    edits,
		Inserts:  inserts,
		Log: func(deleted []uint) *models.ActivityLog {
			return newActivity(editor, models.ActivityAnnotationsReconciled, "image", imageID, "Annotations reconciled", map[string]interface{}{
				"deleted":  deleted,
				"updated":  len(edits),
				"inserted": len(inserts),
			})
		},
	}
	deleted, err := s.annotationRepo.Apply(ctx, plan)
	if err != nil {
		logger.Error(logger.CategoryAnnotation, "reconcile_failed", "Annotation reconciliation rolled back", err, map[string]interface{}{"image_id": imageID})
		return nil, err
	}

	current, err := s.annotationRepo.ListActiveByImage(ctx, imageID)
	if err != nil {
		return nil, err
	}

	logger.Annotation("reconciled", "Annotations reconciled", map[string]interface{}{
		"image_id":  imageID,
		"editor_id": editorID,
		"deleted":   len(deleted),
		"updated":   len(edits),
		"inserted":  len(inserts),
	})
	s.events.Publish(services.EventAnnotationsReconciled, map[string]interface{}{
		"image_id":     imageID,
		"editor_id":    editorID,
		"active_count": len(current),
	})

	return dto.AnnotationsToResponse(current), nil
}

func checkBox(box *models.BoundingBox) *apperrors.AppError {
	if box == nil {
		return apperrors.Invalid("bounding_box is required")
	}
	if err := box.Validate(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalid, "invalid bounding box")
	}
	return nil
}
