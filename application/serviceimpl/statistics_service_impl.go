package serviceimpl

import (
	"context"
	"sort"
	"strconv"
	"time"

	"inspection-api/domain/dto"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/logger"
)

const dayLayout = "2006-01-02"

type StatisticsServiceImpl struct {
	statsRepo  repositories.StatisticsRepository
	classRepo  repositories.DefectClassRepository
	cameraRepo repositories.CameraRepository
	loc        *time.Location
}

func NewStatisticsService(
	statsRepo repositories.StatisticsRepository,
	classRepo repositories.DefectClassRepository,
	cameraRepo repositories.CameraRepository,
	loc *time.Location,
) services.StatisticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatisticsServiceImpl{
		statsRepo:  statsRepo,
		classRepo:  classRepo,
		cameraRepo: cameraRepo,
		loc:        loc,
	}
}

// startOfDay is local midnight of t in the application zone
func (s *StatisticsServiceImpl) startOfDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func (s *StatisticsServiceImpl) startOfMonth(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.loc)
}

func (s *StatisticsServiceImpl) Summary(ctx context.Context, asOf time.Time) (*dto.SummaryResponse, error) {
	today := s.startOfDay(asOf)
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	classes, err := s.classRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	todayCounts, err := s.statsRepo.CountByClass(ctx, today, tomorrow)
	if err != nil {
		return nil, err
	}
	yesterdayCounts, err := s.statsRepo.CountByClass(ctx, yesterday, today)
	if err != nil {
		return nil, err
	}

	byClass := make(map[string]dto.ClassSummary, len(classes))
	for _, c := range classes {
		byClass[c.ClassName] = dto.ClassSummary{Color: c.ClassColor}
	}
	prev := make(map[string]int64, len(yesterdayCounts))
	for _, row := range yesterdayCounts {
		prev[row.ClassName] = row.Count
	}

	var total int64
	for _, row := range todayCounts {
		entry := byClass[row.ClassName]
		entry.Count = row.Count
		entry.Color = row.ClassColor
		byClass[row.ClassName] = entry
		total += row.Count
	}
	for name, entry := range byClass {
		entry.Change = entry.Count - prev[name]
		byClass[name] = entry
	}

	return &dto.SummaryResponse{
		Date:         today.Format(dayLayout),
		Total:        total,
		MostFrequent: mostFrequent(byClass, total),
		ByClass:      byClass,
	}, nil
}

// mostFrequent returns every class tied at the maximum count, sorted by name
func mostFrequent(byClass map[string]dto.ClassSummary, total int64) []string {
	names := []string{}
	if total == 0 {
		return names
	}
	var max int64
	for _, entry := range byClass {
		if entry.Count > max {
			max = entry.Count
		}
	}
	for name, entry := range byClass {
		if entry.Count == max {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s *StatisticsServiceImpl) Weekly(ctx context.Context, asOf time.Time) ([]dto.WeeklyDay, error) {
	today := s.startOfDay(asOf)
	from := today.AddDate(0, 0, -6)
	to := today.AddDate(0, 0, 1)

	rows, err := s.statsRepo.DailyByClass(ctx, from, to, s.loc)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]repositories.DailyClassCount)
	for _, row := range rows {
		byDay[row.Bucket] = append(byDay[row.Bucket], row)
	}

	days := make([]dto.WeeklyDay, 0, 7)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		day := dto.WeeklyDay{
			Date:     key,
			DayLabel: d.Format("Mon"),
			PerClass: []dto.ClassDayCount{},
		}
		for _, row := range byDay[key] {
			day.Total += row.Count
			day.PerClass = append(day.PerClass, dto.ClassDayCount{
				ClassName: row.ClassName,
				Color:     row.ClassColor,
				Count:     row.Count,
			})
		}
		days = append(days, day)
	}
	return days, nil
}

func (s *StatisticsServiceImpl) ByPeriod(ctx context.Context, requester services.Requester, params services.PeriodParams) ([]dto.PeriodStat, error) {
	if params.ByClass && params.ByCamera {
		return nil, apperrors.Invalid("by_class and by_camera cannot be combined")
	}
	unit := repositories.BucketUnit(params.Unit)
	if unit != repositories.UnitDay && unit != repositories.UnitMonth {
		return nil, apperrors.Newf(apperrors.CodeInvalid, "unknown unit %q", params.Unit).WithMeta("units", []string{"day", "month"})
	}
	if params.Start.IsZero() || params.End.IsZero() {
		return nil, apperrors.Invalid("start and end dates are required")
	}
	if params.Start.After(params.End) {
		return nil, apperrors.Invalid("start must not be after end")
	}

	q := repositories.PeriodQuery{
		Unit:     unit,
		Location: s.loc,
		Facet:    repositories.FacetNone,
	}
	if unit == repositories.UnitMonth {
		q.From = s.startOfMonth(params.Start)
		q.To = s.startOfMonth(params.End).AddDate(0, 1, 0)
	} else {
		q.From = s.startOfDay(params.Start)
		q.To = s.startOfDay(params.End).AddDate(0, 0, 1)
	}
	switch {
	case params.ByClass:
		q.Facet = repositories.FacetClass
		q.ClassNames = params.ClassNames
	case params.ByCamera:
		q.Facet = repositories.FacetCamera
		q.CameraIDs = params.CameraIDs
	}

	if requester.IsAnnotator() {
		scope, err := s.cameraRepo.AssignedCameraIDs(ctx, requester.UserID)
		if err != nil {
			return nil, err
		}
		q.ScopeCameraIDs = scope
	}

	rows, err := s.statsRepo.Period(ctx, q)
	if err != nil {
		return nil, err
	}

	buckets := bucketKeys(q.From, q.To, unit)
	var result []dto.PeriodStat
	switch q.Facet {
	case repositories.FacetClass:
		result, err = s.fillByClass(ctx, buckets, rows, q.ClassNames)
		if err != nil {
			return nil, err
		}
	case repositories.FacetCamera:
		result = fillByCamera(buckets, rows, q.CameraIDs, q.ScopeCameraIDs)
	default:
		result = fillTotals(buckets, rows)
	}

	logger.Debug(logger.CategoryStats, "by_period", "Period statistics computed", map[string]interface{}{
		"unit":    string(unit),
		"facet":   string(q.Facet),
		"buckets": len(buckets),
		"rows":    len(result),
	})
	return result, nil
}

// bucketKeys lists every bucket label of [from, to)
func bucketKeys(from, to time.Time, unit repositories.BucketUnit) []string {
	var keys []string
	for t := from; t.Before(to); {
		if unit == repositories.UnitMonth {
			keys = append(keys, t.Format("2006-01"))
			t = t.AddDate(0, 1, 0)
		} else {
			keys = append(keys, t.Format(dayLayout))
			t = t.AddDate(0, 0, 1)
		}
	}
	return keys
}

func fillTotals(buckets []string, rows []repositories.PeriodCount) []dto.PeriodStat {
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Bucket] += row.Count
	}
	out := make([]dto.PeriodStat, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dto.PeriodStat{DateBucket: b, DefectCount: counts[b]})
	}
	return out
}

// fillByClass expands to every bucket for every observed or requested active class
func (s *StatisticsServiceImpl) fillByClass(ctx context.Context, buckets []string, rows []repositories.PeriodCount, requested []string) ([]dto.PeriodStat, error) {
	colors := map[string]string{}
	counts := map[string]int64{}
	for _, row := range rows {
		colors[row.ClassName] = row.ClassColor
		counts[row.Bucket+"\x00"+row.ClassName] += row.Count
	}
	if len(requested) > 0 {
		active, err := s.classRepo.ListActive(ctx)
		if err != nil {
			return nil, err
		}
		want := make(map[string]struct{}, len(requested))
		for _, name := range requested {
			want[name] = struct{}{}
		}
		for _, c := range active {
			if _, ok := want[c.ClassName]; ok {
				colors[c.ClassName] = c.ClassColor
			}
		}
	}

	labels := make([]string, 0, len(colors))
	for name := range colors {
		labels = append(labels, name)
	}
	sort.Strings(labels)

	out := make([]dto.PeriodStat, 0, len(buckets)*len(labels))
	for _, b := range buckets {
		for _, name := range labels {
			label, color := name, colors[name]
			out = append(out, dto.PeriodStat{
				DateBucket:  b,
				Label:       &label,
				ClassColor:  &color,
				DefectCount: counts[b+"\x00"+name],
			})
		}
	}
	return out, nil
}

// fillByCamera expands to every bucket for every observed or requested camera, cameras in numeric order
func fillByCamera(buckets []string, rows []repositories.PeriodCount, requested, scope []uint) []dto.PeriodStat {
	seen := map[uint]struct{}{}
	counts := map[string]int64{}
	for _, row := range rows {
		seen[row.CameraID] = struct{}{}
		counts[row.Bucket+"\x00"+strconv.FormatUint(uint64(row.CameraID), 10)] += row.Count
	}

	allowed := map[uint]struct{}{}
	for _, id := range scope {
		allowed[id] = struct{}{}
	}
	for _, id := range requested {
		if scope != nil {
			if _, ok := allowed[id]; !ok {
				continue
			}
		}
		seen[id] = struct{}{}
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]dto.PeriodStat, 0, len(buckets)*len(ids))
	for _, b := range buckets {
		for _, id := range ids {
			label := strconv.FormatUint(uint64(id), 10)
			out = append(out, dto.PeriodStat{
				DateBucket:  b,
				Label:       &label,
				DefectCount: counts[b+"\x00"+label],
			})
		}
	}
	return out
}

func (s *StatisticsServiceImpl) WorkerOverview(ctx context.Context, params services.WorkerParams) ([]dto.WorkerStat, error) {
	q := repositories.WorkerQuery{
		UserID: params.UserID,
		Search: params.Search,
	}
	if params.Start != nil {
		from := s.startOfDay(*params.Start)
		q.From = &from
	}
	if params.End != nil {
		to := s.startOfDay(*params.End).AddDate(0, 0, 1)
		q.To = &to
	}
	if q.From != nil && q.To != nil && !q.From.Before(*q.To) {
		return nil, apperrors.Invalid("start must not be after end")
	}

	rows, err := s.statsRepo.WorkerOverview(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WorkerStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.WorkerStat{
			UserID:    row.UserID,
			UserName:  row.UserName,
			WorkCount: row.WorkCount,
		})
	}
	return out, nil
}
