package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/services"
	"inspection-api/interfaces/api/middleware"
	apperrors "inspection-api/pkg/errors"
	"inspection-api/pkg/utils"
)

const dateLayout = "2006-01-02"

type StatisticsHandler struct {
	statsService services.StatisticsService
	loc          *time.Location
	now          func() time.Time
}

func NewStatisticsHandler(statsService services.StatisticsService, loc *time.Location) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService, loc: loc, now: time.Now}
}

// Summary returns today's defect counts; ?date= overrides today
func (h *StatisticsHandler) Summary(c *fiber.Ctx) error {
	asOf, err := h.asOf(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	summary, err := h.statsService.Summary(c.UserContext(), asOf)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Summary retrieved", summary)
}

func (h *StatisticsHandler) Weekly(c *fiber.Ctx) error {
	asOf, err := h.asOf(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	days, err := h.statsService.Weekly(c.UserContext(), asOf)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Weekly statistics retrieved", days)
}

// ByPeriod serves ?start_date&end_date&unit with an optional class or camera facet
func (h *StatisticsHandler) ByPeriod(c *fiber.Ctx) error {
	requester, err := middleware.RequesterFrom(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	start, err := h.parseDate(c.Query("start_date"), "start_date")
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	end, err := h.parseDate(c.Query("end_date"), "end_date")
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if start == nil || end == nil {
		return utils.AppErrorResponse(c, apperrors.Invalid("start_date and end_date are required"))
	}

	cameraIDs, err := parseIDList(c.Query("camera_ids"))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	classNames := splitList(c.Query("class_names"))

	params := services.PeriodParams{
		Start:      *start,
		End:        *end,
		Unit:       c.Query("unit", "day"),
		ByClass:    c.QueryBool("by_class") || len(classNames) > 0,
		ClassNames: classNames,
		ByCamera:   c.QueryBool("by_camera") || len(cameraIDs) > 0,
		CameraIDs:  cameraIDs,
	}

	stats, err := h.statsService.ByPeriod(c.UserContext(), requester, params)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Period statistics retrieved", stats)
}

func (h *StatisticsHandler) WorkerOverview(c *fiber.Ctx) error {
	params := services.WorkerParams{Search: c.Query("search")}

	if raw := c.Query("user_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			return utils.ValidationErrorResponse(c, "Invalid user_id")
		}
		id := uint(n)
		params.UserID = &id
	}

	var err error
	if params.Start, err = h.parseDate(c.Query("start_date"), "start_date"); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if params.End, err = h.parseDate(c.Query("end_date"), "end_date"); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	workers, err := h.statsService.WorkerOverview(c.UserContext(), params)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, "Worker overview retrieved", workers)
}

func (h *StatisticsHandler) asOf(c *fiber.Ctx) (time.Time, error) {
	d, err := h.parseDate(c.Query("date"), "date")
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return h.now().In(h.loc), nil
	}
	return *d, nil
}

// parseDate reads a YYYY-MM-DD value as local midnight; empty yields nil
func (h *StatisticsHandler) parseDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, h.loc)
	if err != nil {
		return nil, apperrors.Invalid(field + " must be YYYY-MM-DD").WithMeta("field", field)
	}
	return &t, nil
}

func parseIDList(raw string) ([]uint, error) {
	parts := splitList(raw)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil || n == 0 {
			return nil, apperrors.Invalid("camera_ids must be positive integers").WithMeta("value", p)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}
