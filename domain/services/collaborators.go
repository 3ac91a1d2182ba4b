package services

import (
	"context"

	"inspection-api/domain/models"
)

// Detection is one box proposed by the inference model
type Detection struct {
	ClassID     uint               `json:"class_id"`
	ClassName   string             `json:"class_name"`
	Confidence  float64            `json:"confidence"`
	BoundingBox models.BoundingBox `json:"bounding_box"`
}

// InferenceClient runs the defect detection model on a stored image
type InferenceClient interface {
	Predict(ctx context.Context, imageURL string) ([]Detection, error)
	Health(ctx context.Context) error
}

// ObjectStore keeps uploaded image bytes
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL recovers the object key of a URL returned by Put
	KeyFromURL(url string) (string, bool)
}

// Identity is what an OAuth provider tells us about the caller
type Identity struct {
	Email       string
	DisplayName string
	AvatarURL   string
}

// IdentityProvider is one OAuth login provider
type IdentityProvider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code, state string) (*Identity, error)
}

// EventPublisher pushes realtime notifications to connected clients
type EventPublisher interface {
	Publish(event string, payload interface{})
}

// Realtime event names
const (
	EventAnnotationsReconciled = "annotations_reconciled"
	EventImageUploaded         = "image_uploaded"
	EventImageStatusChanged    = "image_status_changed"
	EventImagesDeleted         = "images_deleted"
)

// Requester is the authenticated caller of a service operation
type Requester struct {
	UserID uint
	Role   models.UserType
}

func (r Requester) IsAnnotator() bool {
	return r.Role == models.UserTypeAnnotator
}
