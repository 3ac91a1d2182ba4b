package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// BoundingBox is normalized to the image size, every coordinate within [0,1]
type BoundingBox struct {
	XCenter float64 `json:"x_center"`
	YCenter float64 `json:"y_center"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
}

// UnmarshalJSON also accepts the legacy cx/cy/width/height keys. Every coordinate must be present
// under one of its names.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw struct {
		XCenter *float64 `json:"x_center"`
		YCenter *float64 `json:"y_center"`
		W       *float64 `json:"w"`
		H       *float64 `json:"h"`
		CX      *float64 `json:"cx"`
		CY      *float64 `json:"cy"`
		Width   *float64 `json:"width"`
		Height  *float64 `json:"height"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		dst  *float64
		vals []*float64
	}{
		{"x_center", &b.XCenter, []*float64{raw.XCenter, raw.CX}},
		{"y_center", &b.YCenter, []*float64{raw.YCenter, raw.CY}},
		{"w", &b.W, []*float64{raw.W, raw.Width}},
		{"h", &b.H, []*float64{raw.H, raw.Height}},
	}
	for _, f := range fields {
		v, ok := firstOf(f.vals...)
		if !ok {
			return fmt.Errorf("bounding box %s is missing", f.name)
		}
		*f.dst = v
	}
	return nil
}

func firstOf(vals ...*float64) (float64, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

// Validate checks every coordinate is normalized and the box has an area
func (b BoundingBox) Validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{{"x_center", b.XCenter}, {"y_center", b.YCenter}, {"w", b.W}, {"h", b.H}} {
		if c.v < 0 || c.v > 1 {
			return fmt.Errorf("bounding box %s=%v is outside [0,1]", c.name, c.v)
		}
	}
	if b.W == 0 || b.H == 0 {
		return fmt.Errorf("bounding box must have a positive width and height, got w=%v h=%v", b.W, b.H)
	}
	return nil
}

// Annotation with IsActive=false is soft deleted. ConfScore is set by inference only
// and is nil for rows created by a human.
type Annotation struct {
	AnnotationID uint                            `gorm:"primaryKey;column:annotation_id"`
	ImageID      uint                            `gorm:"not null;index"`
	ClassID      uint                            `gorm:"not null;index"`
	Date         time.Time                       `gorm:"not null;index"`
	ConfScore    *float64                        `gorm:"column:conf_score"`
	BoundingBox  datatypes.JSONType[BoundingBox] `gorm:"column:bounding_box;not null"`
	UserID       *uint                           `gorm:"index"`
	IsActive     bool                            `gorm:"not null;index"`

	DefectClass DefectClass `gorm:"foreignKey:ClassID;references:ClassID"`
	User        *User       `gorm:"foreignKey:UserID;references:UserID"`
}

func (Annotation) TableName() string {
	return "annotations"
}

// Box returns the decoded bounding box
func (a *Annotation) Box() BoundingBox {
	return a.BoundingBox.Data()
}
