package services

import (
	"context"
	"time"

	"inspection-api/domain/dto"
)

// PeriodParams selects period statistics. ByClass and ByCamera are mutually exclusive.
type PeriodParams struct {
	Start      time.Time
	End        time.Time
	Unit       string
	ByClass    bool
	ClassNames []string
	ByCamera   bool
	CameraIDs  []uint
}

type WorkerParams struct {
	UserID *uint
	Start  *time.Time
	End    *time.Time
	Search string
}

type StatisticsService interface {
	Summary(ctx context.Context, asOf time.Time) (*dto.SummaryResponse, error)
	Weekly(ctx context.Context, asOf time.Time) ([]dto.WeeklyDay, error)
	ByPeriod(ctx context.Context, requester Requester, params PeriodParams) ([]dto.PeriodStat, error)
	WorkerOverview(ctx context.Context, params WorkerParams) ([]dto.WorkerStat, error)
}
