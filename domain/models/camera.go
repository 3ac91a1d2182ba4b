package models

type Camera struct {
	CameraID uint   `gorm:"primaryKey;column:camera_id"`
	LineName string `gorm:"size:100;not null"`
	IsActive bool   `gorm:"not null"`
}

func (Camera) TableName() string {
	return "cameras"
}
