package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inspection-api/domain/dto"
	"inspection-api/domain/models"
	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	"inspection-api/pkg/utils"
)

type stubStats struct {
	asOf    time.Time
	period  services.PeriodParams
	workers services.WorkerParams
	calls   int
}

func (s *stubStats) Summary(_ context.Context, asOf time.Time) (*dto.SummaryResponse, error) {
	s.calls++
	s.asOf = asOf
	return &dto.SummaryResponse{Date: asOf.Format(dateLayout), MostFrequent: []string{}}, nil
}

func (s *stubStats) Weekly(_ context.Context, asOf time.Time) ([]dto.WeeklyDay, error) {
	s.calls++
	s.asOf = asOf
	return []dto.WeeklyDay{}, nil
}

func (s *stubStats) ByPeriod(_ context.Context, _ services.Requester, params services.PeriodParams) ([]dto.PeriodStat, error) {
	s.calls++
	s.period = params
	return []dto.PeriodStat{}, nil
}

func (s *stubStats) WorkerOverview(_ context.Context, params services.WorkerParams) ([]dto.WorkerStat, error) {
	s.calls++
	s.workers = params
	return []dto.WorkerStat{}, nil
}

var seoul = time.FixedZone("KST", 9*3600)

func statsApp(stats *stubStats) *fiber.App {
	h := NewStatisticsHandler(stats, seoul)
	h.now = func() time.Time { return time.Date(2024, 6, 1, 20, 0, 0, 0, time.UTC) }

	asAdmin := func(c *fiber.Ctx) error {
		c.Locals("user", &utils.UserContext{ID: 1, Role: string(models.UserTypeAdmin), ApprovalStatus: "approved", IsActive: true})
		return c.Next()
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/summary", asAdmin, h.Summary)
	app.Get("/period", asAdmin, h.ByPeriod)
	app.Get("/workers", asAdmin, h.WorkerOverview)
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, utils.Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body utils.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSummaryDefaultsToTodayInZone(t *testing.T) {
	stats := &stubStats{}
	app := statsApp(stats)

	status, _ := get(t, app, "/summary")
	assert.Equal(t, fiber.StatusOK, status)
	// 20:00 UTC is already the next day in Seoul
	assert.Equal(t, "2024-06-02", stats.asOf.Format(dateLayout))

	status, _ = get(t, app, "/summary?date=2024-01-15")
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, seoul).Equal(stats.asOf))

	status, body := get(t, app, "/summary?date=15-01-2024")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid", body.Error)
}

func TestByPeriodQueryParsing(t *testing.T) {
	stats := &stubStats{}
	app := statsApp(stats)

	status, _ := get(t, app, "/period?start_date=2024-01-01&end_date=2024-01-03")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "day", stats.period.Unit)
	assert.False(t, stats.period.ByClass)
	assert.False(t, stats.period.ByCamera)
	assert.True(t, time.Date(2024, 1, 3, 0, 0, 0, 0, seoul).Equal(stats.period.End))

	status, _ = get(t, app, "/period?start_date=2024-01-01&end_date=2024-03-01&unit=month&class_names=scratch,%20dent")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "month", stats.period.Unit)
	assert.True(t, stats.period.ByClass)
	assert.Equal(t, []string{"scratch", "dent"}, stats.period.ClassNames)

	status, _ = get(t, app, "/period?start_date=2024-01-01&end_date=2024-01-02&camera_ids=3,1")
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, stats.period.ByCamera)
	assert.Equal(t, []uint{3, 1}, stats.period.CameraIDs)

	calls := stats.calls
	status, _ = get(t, app, "/period?start_date=2024-01-01")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = get(t, app, "/period?start_date=2024-01-01&end_date=2024-01-02&camera_ids=a")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, calls, stats.calls)
}

func TestWorkerOverviewQueryParsing(t *testing.T) {
	stats := &stubStats{}
	app := statsApp(stats)

	status, _ := get(t, app, "/workers?user_id=7&start_date=2024-01-01&search=kim")
	require.Equal(t, fiber.StatusOK, status)
	require.NotNil(t, stats.workers.UserID)
	assert.Equal(t, uint(7), *stats.workers.UserID)
	require.NotNil(t, stats.workers.Start)
	assert.Nil(t, stats.workers.End)
	assert.Equal(t, "kim", stats.workers.Search)

	status, _ = get(t, app, "/workers?user_id=zero")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

type stubInference struct{ err error }

func (s *stubInference) Predict(context.Context, string) ([]services.Detection, error) {
	return nil, nil
}

func (s *stubInference) Health(context.Context) error { return s.err }

func TestDetailedHealth(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:health?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	tests := []struct {
		name      string
		db        *gorm.DB
		inference services.InferenceClient
		status    int
		overall   string
	}{
		{"all ok", db, &stubInference{}, fiber.StatusOK, "healthy"},
		{"inference down", db, &stubInference{err: errors.New("timeout")}, fiber.StatusOK, "degraded"},
		{"no database", nil, &stubInference{}, fiber.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, nil, tt.inference)
			app := fiber.New()
			app.Get("/health/detailed", h.DetailedHealth)

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health/detailed", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body DetailedHealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.overall, body.Status)
			assert.Equal(t, "unavailable", body.Components["redis"].Status)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
