package repositories

import (
	"context"
	"time"
)

type BucketUnit string

const (
	UnitDay   BucketUnit = "day"
	UnitMonth BucketUnit = "month"
)

type FacetKind string

const (
	FacetNone   FacetKind = "none"
	FacetClass  FacetKind = "class"
	FacetCamera FacetKind = "camera"
)

type ClassCount struct {
	ClassName  string
	ClassColor string
	Count      int64
}

type DailyClassCount struct {
	Bucket     string
	ClassName  string
	ClassColor string
	Count      int64
}

// PeriodQuery covers [From, To) bucketed in Location
type PeriodQuery struct {
	From       time.Time
	To         time.Time
	Unit       BucketUnit
	Location   *time.Location
	Facet      FacetKind
	ClassNames []string
	CameraIDs  []uint
	// ScopeCameraIDs restricts to assigned cameras when non-nil
	ScopeCameraIDs []uint
}

type PeriodCount struct {
	Bucket     string
	ClassName  string
	ClassColor string
	CameraID   uint
	Count      int64
}

type WorkerQuery struct {
	UserID *uint
	From   *time.Time
	To     *time.Time
	Search string
}

type WorkerCount struct {
	UserID    uint
	UserName  string
	WorkCount int64
}

// StatisticsRepository reads active annotations of completed images with active classes
type StatisticsRepository interface {
	CountByClass(ctx context.Context, from, to time.Time) ([]ClassCount, error)
	DailyByClass(ctx context.Context, from, to time.Time, loc *time.Location) ([]DailyClassCount, error)
	Period(ctx context.Context, q PeriodQuery) ([]PeriodCount, error)
	WorkerOverview(ctx context.Context, q WorkerQuery) ([]WorkerCount, error)
}
