package models

import "time"

// DefectClass is soft-deleted only, so historical annotations keep their class reference
type DefectClass struct {
	ClassID    uint   `gorm:"primaryKey;column:class_id"`
	ClassName  string `gorm:"size:100;uniqueIndex;not null"`
	ClassColor string `gorm:"size:7;not null"`
	IsActive   bool   `gorm:"not null;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (DefectClass) TableName() string {
	return "defect_classes"
}
