package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	apperrors "inspection-api/pkg/errors"
)

// countingStats only counts the queries it receives
type countingStats struct {
	calls int
}

func (c *countingStats) CountByClass(context.Context, time.Time, time.Time) ([]repositories.ClassCount, error) {
	c.calls++
	return nil, nil
}

func (c *countingStats) DailyByClass(context.Context, time.Time, time.Time, *time.Location) ([]repositories.DailyClassCount, error) {
	c.calls++
	return nil, nil
}

func (c *countingStats) Period(context.Context, repositories.PeriodQuery) ([]repositories.PeriodCount, error) {
	c.calls++
	return nil, nil
}

func (c *countingStats) WorkerOverview(context.Context, repositories.WorkerQuery) ([]repositories.WorkerCount, error) {
	c.calls++
	return nil, nil
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func label(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func TestByPeriodFillsEmptyBuckets(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	class := r.class(t, "scratch", "#ff0000", true)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, day(2024, 1, 2, 10))
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 1, 2, 10), nil, true)
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 1, 2, 11), nil, true)

	out, err := svc.ByPeriod(ctx, admin(1), services.PeriodParams{
		Start: day(2024, 1, 1, 0),
		End:   day(2024, 1, 3, 0),
		Unit:  "day",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "2024-01-01", out[0].DateBucket)
	assert.Zero(t, out[0].DefectCount)
	assert.Equal(t, "2024-01-02", out[1].DateBucket)
	assert.Equal(t, int64(2), out[1].DefectCount)
	assert.Equal(t, "2024-01-03", out[2].DateBucket)
	assert.Zero(t, out[2].DefectCount)
	assert.Nil(t, out[0].Label)
	assert.Nil(t, out[0].ClassColor)
}

func TestByPeriodRejectsBothFacetsBeforeQuerying(t *testing.T) {
	stats := &countingStats{}
	svc := NewStatisticsService(stats, nil, nil, time.UTC)

	_, err := svc.ByPeriod(context.Background(), admin(1), services.PeriodParams{
		Start:    day(2024, 1, 1, 0),
		End:      day(2024, 1, 3, 0),
		Unit:     "day",
		ByClass:  true,
		ByCamera: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
	assert.Zero(t, stats.calls)
}

func TestByPeriodParamValidation(t *testing.T) {
	stats := &countingStats{}
	svc := NewStatisticsService(stats, nil, nil, time.UTC)
	ctx := context.Background()

	tests := map[string]services.PeriodParams{
		"unknown unit":  {Start: day(2024, 1, 1, 0), End: day(2024, 1, 2, 0), Unit: "week"},
		"missing start": {End: day(2024, 1, 2, 0), Unit: "day"},
		"reversed":      {Start: day(2024, 1, 5, 0), End: day(2024, 1, 2, 0), Unit: "day"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ByPeriod(ctx, admin(1), params)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
		})
	}
	assert.Zero(t, stats.calls)
}

func TestByPeriodByClassIncludesRequestedLabels(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	scratch := r.class(t, "scratch", "#ff0000", true)
	r.class(t, "dent", "#00ff00", true)
	r.class(t, "retired", "#0000ff", false)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, day(2024, 1, 1, 10))
	r.annotation(t, img.ImageID, scratch.ClassID, day(2024, 1, 1, 10), nil, true)

	out, err := svc.ByPeriod(ctx, admin(1), services.PeriodParams{
		Start:      day(2024, 1, 1, 0),
		End:        day(2024, 1, 2, 0),
		Unit:       "day",
		ByClass:    true,
		ClassNames: []string{"scratch", "dent", "retired"},
	})
	require.NoError(t, err)
	require.Len(t, out, 4)

	// buckets outer, labels sorted inner
	assert.Equal(t, "2024-01-01", out[0].DateBucket)
	assert.Equal(t, "dent", label(out[0].Label))
	assert.Equal(t, "#00ff00", label(out[0].ClassColor))
	assert.Zero(t, out[0].DefectCount)
	assert.Equal(t, "scratch", label(out[1].Label))
	assert.Equal(t, int64(1), out[1].DefectCount)
	assert.Equal(t, "2024-01-02", out[2].DateBucket)
	assert.Equal(t, "dent", label(out[2].Label))
	assert.Equal(t, "scratch", label(out[3].Label))
	assert.Zero(t, out[3].DefectCount)
}

func TestByPeriodByCameraScopesAnnotators(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	mine := r.camera(t, "line-1", true)
	theirs := r.camera(t, "line-2", true)
	class := r.class(t, "scratch", "#ff0000", true)
	worker := r.user(t, "worker@example.com", models.UserTypeAnnotator)
	require.NoError(t, r.cameras.ReplaceAssignments(ctx, worker.UserID, []uint{mine.CameraID}, nil, nil))

	for _, camID := range []uint{mine.CameraID, theirs.CameraID} {
		img := r.image(t, camID, models.ImageStatusCompleted, day(2024, 1, 1, 10))
		r.annotation(t, img.ImageID, class.ClassID, day(2024, 1, 1, 10), nil, true)
	}

	params := services.PeriodParams{
		Start:     day(2024, 1, 1, 0),
		End:       day(2024, 1, 1, 0),
		Unit:      "day",
		ByCamera:  true,
		CameraIDs: []uint{mine.CameraID, theirs.CameraID},
	}

	out, err := svc.ByPeriod(ctx, annotator(worker.UserID), params)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "1", label(out[0].Label))
	assert.Equal(t, int64(1), out[0].DefectCount)
	assert.Nil(t, out[0].ClassColor)

	out, err = svc.ByPeriod(ctx, admin(1), params)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "1", label(out[0].Label))
	assert.Equal(t, "2", label(out[1].Label))
}

func TestByPeriodMonthUnit(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	class := r.class(t, "scratch", "#ff0000", true)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, day(2024, 2, 14, 10))
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 2, 14, 10), nil, true)

	out, err := svc.ByPeriod(ctx, admin(1), services.PeriodParams{
		Start: day(2024, 1, 20, 0),
		End:   day(2024, 3, 2, 0),
		Unit:  "month",
	})
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, []string{out[0].DateBucket, out[1].DateBucket, out[2].DateBucket})
	assert.Equal(t, int64(1), out[1].DefectCount)
}

func TestByPeriodBucketsInApplicationZone(t *testing.T) {
	r := newRepos(t)
	seoul := time.FixedZone("KST", 9*3600)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, seoul)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	class := r.class(t, "scratch", "#ff0000", true)
	// 2024-01-01 18:00 UTC is 2024-01-02 03:00 in Seoul
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, day(2024, 1, 1, 18))
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 1, 1, 18), nil, true)

	out, err := svc.ByPeriod(ctx, admin(1), services.PeriodParams{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, seoul),
		End:   time.Date(2024, 1, 2, 0, 0, 0, 0, seoul),
		Unit:  "day",
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Zero(t, out[0].DefectCount)
	assert.Equal(t, "2024-01-02", out[1].DateBucket)
	assert.Equal(t, int64(1), out[1].DefectCount)
}

func TestSummaryExcludesSoftDeleted(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	scratch := r.class(t, "scratch", "#ff0000", true)
	dent := r.class(t, "dent", "#00ff00", true)
	today := day(2024, 5, 10, 9)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, today)
	r.annotation(t, img.ImageID, scratch.ClassID, today, nil, true)
	r.annotation(t, img.ImageID, scratch.ClassID, today, nil, false)
	r.annotation(t, img.ImageID, dent.ClassID, today, nil, false)

	summary, err := svc.Summary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", summary.Date)
	assert.Equal(t, int64(1), summary.Total)
	assert.Equal(t, []string{"scratch"}, summary.MostFrequent)
	assert.Equal(t, int64(1), summary.ByClass["scratch"].Count)
	assert.Zero(t, summary.ByClass["dent"].Count)
	assert.Equal(t, "#00ff00", summary.ByClass["dent"].Color)
}

func TestSummaryTiesAndChange(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	scratch := r.class(t, "scratch", "#ff0000", true)
	dent := r.class(t, "dent", "#00ff00", true)
	crack := r.class(t, "crack", "#0000ff", true)
	today := day(2024, 5, 10, 9)
	yesterday := today.AddDate(0, 0, -1)

	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, today)
	for _, c := range []uint{scratch.ClassID, scratch.ClassID, dent.ClassID, dent.ClassID, crack.ClassID} {
		r.annotation(t, img.ImageID, c, today, nil, true)
	}
	old := r.image(t, cam.CameraID, models.ImageStatusCompleted, yesterday)
	for _, c := range []uint{scratch.ClassID, scratch.ClassID, scratch.ClassID, crack.ClassID} {
		r.annotation(t, old.ImageID, c, yesterday, nil, true)
	}

	summary, err := svc.Summary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Total)
	assert.Equal(t, []string{"dent", "scratch"}, summary.MostFrequent)
	assert.Equal(t, int64(-1), summary.ByClass["scratch"].Change)
	assert.Equal(t, int64(2), summary.ByClass["dent"].Change)
	assert.Zero(t, summary.ByClass["crack"].Change)

	empty, err := svc.Summary(ctx, today.AddDate(0, 0, 10))
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.NotNil(t, empty.MostFrequent)
	assert.Empty(t, empty.MostFrequent)
	assert.Len(t, empty.ByClass, 3)
}

func TestWeeklyReturnsSevenDays(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	class := r.class(t, "scratch", "#ff0000", true)
	asOf := day(2024, 5, 10, 15)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, asOf)
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 5, 4, 8), nil, true)
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 5, 10, 8), nil, true)
	r.annotation(t, img.ImageID, class.ClassID, day(2024, 5, 3, 8), nil, true)

	days, err := svc.Weekly(ctx, asOf)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-05-04", days[0].Date)
	assert.Equal(t, "Sat", days[0].DayLabel)
	assert.Equal(t, int64(1), days[0].Total)
	assert.Equal(t, "2024-05-10", days[6].Date)
	assert.Equal(t, int64(1), days[6].Total)
	require.Len(t, days[6].PerClass, 1)
	assert.Equal(t, "scratch", days[6].PerClass[0].ClassName)
	assert.NotNil(t, days[3].PerClass)
	assert.Empty(t, days[3].PerClass)
}

func TestWorkerOverviewListsIdleAnnotators(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	class := r.class(t, "scratch", "#ff0000", true)
	busy := r.user(t, "busy@example.com", models.UserTypeAnnotator)
	r.user(t, "idle@example.com", models.UserTypeAnnotator)

	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, day(2024, 1, 1, 10))
	a := r.annotation(t, img.ImageID, class.ClassID, day(2024, 1, 1, 10), nil, true)
	require.NoError(t, r.db.Model(&models.Annotation{}).Where("annotation_id = ?", a.AnnotationID).Update("user_id", busy.UserID).Error)

	out, err := svc.WorkerOverview(ctx, services.WorkerParams{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "busy", out[0].UserName)
	assert.Equal(t, int64(1), out[0].WorkCount)
	assert.Equal(t, "idle", out[1].UserName)
	assert.Zero(t, out[1].WorkCount)

	start, end := day(2024, 1, 5, 0), day(2024, 1, 2, 0)
	_, err = svc.WorkerOverview(ctx, services.WorkerParams{Start: &start, End: &end})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalid))
}

func TestSoftDeletedAnnotationsStayOutOfTrends(t *testing.T) {
	r := newRepos(t)
	svc := NewStatisticsService(r.stats, r.classes, r.cameras, time.UTC)
	ctx := context.Background()

	cam := r.camera(t, "line-1", true)
	scratch := r.class(t, "scratch", "#ff0000", true)
	dent := r.class(t, "dent", "#00ff00", true)
	at := day(2024, 5, 10, 8)
	img := r.image(t, cam.CameraID, models.ImageStatusCompleted, at)
	r.annotation(t, img.ImageID, scratch.ClassID, at, nil, true)
	r.annotation(t, img.ImageID, scratch.ClassID, at, nil, false)
	r.annotation(t, img.ImageID, dent.ClassID, at, nil, false)

	days, err := svc.Weekly(ctx, at)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, int64(1), days[6].Total)
	require.Len(t, days[6].PerClass, 1)
	assert.Equal(t, "scratch", days[6].PerClass[0].ClassName)
	assert.Equal(t, int64(1), days[6].PerClass[0].Count)

	base := services.PeriodParams{Start: day(2024, 5, 10, 0), End: day(2024, 5, 10, 0), Unit: "day"}

	out, err := svc.ByPeriod(ctx, admin(1), base)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].DefectCount)

	byClass := base
	byClass.ByClass = true
	out, err = svc.ByPeriod(ctx, admin(1), byClass)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "scratch", label(out[0].Label))
	assert.Equal(t, int64(1), out[0].DefectCount)

	// a requested class with only deleted rows shows up as zero
	byClass.ClassNames = []string{"dent"}
	out, err = svc.ByPeriod(ctx, admin(1), byClass)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "dent", label(out[0].Label))
	assert.Zero(t, out[0].DefectCount)

	byCamera := base
	byCamera.ByCamera = true
	out, err = svc.ByPeriod(ctx, admin(1), byCamera)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].DefectCount)
}
