package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	// Moderation
	ActivityUserApproved      ActivityType = "user_approved"
	ActivityUserRejected      ActivityType = "user_rejected"
	ActivityRoleChanged       ActivityType = "role_changed"
	ActivityMemberDeactivated ActivityType = "member_deactivated"
	ActivityCamerasAssigned   ActivityType = "cameras_assigned"

	// Images
	ActivityImageUploaded      ActivityType = "image_uploaded"
	ActivityImageStatusChanged ActivityType = "image_status_changed"
	ActivityImagesDeleted      ActivityType = "images_deleted"

	// Annotations and taxonomy
	ActivityAnnotationsReconciled ActivityType = "annotations_reconciled"
	ActivityDefectClassCreated    ActivityType = "defect_class_created"
	ActivityDefectClassUpdated    ActivityType = "defect_class_updated"
	ActivityDefectClassDeleted    ActivityType = "defect_class_deleted"
)

// ActivityTypes lists every type, in display order
var ActivityTypes = []ActivityType{
	ActivityUserApproved,
	ActivityUserRejected,
	ActivityRoleChanged,
	ActivityMemberDeactivated,
	ActivityCamerasAssigned,
	ActivityImageUploaded,
	ActivityImageStatusChanged,
	ActivityImagesDeleted,
	ActivityAnnotationsReconciled,
	ActivityDefectClassCreated,
	ActivityDefectClassUpdated,
	ActivityDefectClassDeleted,
}

// ActivityLog records moderation and data changing actions for audit
type ActivityLog struct {
	ID           uuid.UUID      `gorm:"primaryKey;type:uuid"`
	ActorUserID  *uint          `gorm:"index"`
	ActivityType ActivityType   `gorm:"type:varchar(50);not null;index"`
	TargetType   string         `gorm:"type:varchar(30)"`
	TargetID     string         `gorm:"type:varchar(64);index"`
	Message      string         `gorm:"type:text"`
	Details      datatypes.JSON `gorm:"column:details"`
	CreatedAt    time.Time      `gorm:"index"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
