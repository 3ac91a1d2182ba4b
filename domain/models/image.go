package models

import "time"

type ImageStatus string

const (
	ImageStatusPending   ImageStatus = "pending"
	ImageStatusCompleted ImageStatus = "completed"
)

func (s ImageStatus) Valid() bool {
	return s == ImageStatusPending || s == ImageStatusCompleted
}

type Image struct {
	ImageID   uint        `gorm:"primaryKey;column:image_id"`
	FilePath  string      `gorm:"size:500;not null"`
	Date      time.Time   `gorm:"not null;index"`
	CameraID  uint        `gorm:"not null;index"`
	DatasetID *uint       `gorm:"index"`
	Status    ImageStatus `gorm:"size:20;not null;index"`
	Width     int
	Height    int

	Camera      Camera       `gorm:"foreignKey:CameraID;references:CameraID"`
	Annotations []Annotation `gorm:"foreignKey:ImageID;references:ImageID;constraint:OnDelete:CASCADE"`
}

func (Image) TableName() string {
	return "images"
}
