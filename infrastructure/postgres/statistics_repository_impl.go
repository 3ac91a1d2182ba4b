package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
)

type StatisticsRepositoryImpl struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) repositories.StatisticsRepository {
	return &StatisticsRepositoryImpl{db: db}
}

// base joins annotations to completed images and active classes, keeping only active annotations
func (r *StatisticsRepositoryImpl) base(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("annotations AS a").
		Joins("JOIN images i ON i.image_id = a.image_id").
		Joins("JOIN defect_classes d ON d.class_id = a.class_id").
		Where("a.is_active = ? AND d.is_active = ? AND i.status = ?", true, true, models.ImageStatusCompleted)
}

// bucketExpr renders a.date truncated to the unit, as seen in loc
func (r *StatisticsRepositoryImpl) bucketExpr(unit repositories.BucketUnit, loc *time.Location, at time.Time) (string, []interface{}) {
	if loc == nil {
		loc = time.UTC
	}
	if r.db.Dialector.Name() == "postgres" {
		layout := "YYYY-MM-DD"
		if unit == repositories.UnitMonth {
			layout = "YYYY-MM"
		}
		return fmt.Sprintf("to_char(a.date AT TIME ZONE ?, '%s')", layout), []interface{}{loc.String()}
	}

	// sqlite keeps UTC text; shift by the zone offset in effect at the start of the range.
	// DST changes inside the range are not followed, for day and month buckets alike.
	layout := "%Y-%m-%d"
	if unit == repositories.UnitMonth {
		layout = "%Y-%m"
	}
	_, offset := at.In(loc).Zone()
	return fmt.Sprintf("strftime('%s', a.date, '%+d seconds')", layout, offset), nil
}

func (r *StatisticsRepositoryImpl) CountByClass(ctx context.Context, from, to time.Time) ([]repositories.ClassCount, error) {
	rows := []repositories.ClassCount{}
	err := r.base(ctx).
		Select("d.class_name, d.class_color, COUNT(*) AS count").
		Where("a.date >= ? AND a.date < ?", from.UTC(), to.UTC()).
		Group("d.class_name, d.class_color").
		Order("d.class_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepositoryImpl) DailyByClass(ctx context.Context, from, to time.Time, loc *time.Location) ([]repositories.DailyClassCount, error) {
	rows := []repositories.DailyClassCount{}
	expr, args := r.bucketExpr(repositories.UnitDay, loc, from)
	err := r.base(ctx).
		Select(expr+" AS bucket, d.class_name, d.class_color, COUNT(*) AS count", args...).
		Where("a.date >= ? AND a.date < ?", from.UTC(), to.UTC()).
		Group("bucket, d.class_name, d.class_color").
		Order("bucket ASC").
		Order("d.class_name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepositoryImpl) Period(ctx context.Context, q repositories.PeriodQuery) ([]repositories.PeriodCount, error) {
	rows := []repositories.PeriodCount{}
	if q.ScopeCameraIDs != nil && len(q.ScopeCameraIDs) == 0 {
		return rows, nil
	}

	expr, args := r.bucketExpr(q.Unit, q.Location, q.From)
	columns := []string{expr + " AS bucket"}
	groups := []string{"bucket"}

	query := r.base(ctx).Where("a.date >= ? AND a.date < ?", q.From.UTC(), q.To.UTC())
	if q.ScopeCameraIDs != nil {
		query = query.Where("i.camera_id IN ?", q.ScopeCameraIDs)
	}

	switch q.Facet {
	case repositories.FacetClass:
		columns = append(columns, "d.class_name", "d.class_color")
		groups = append(groups, "d.class_name", "d.class_color")
		if len(q.ClassNames) > 0 {
			query = query.Where("d.class_name IN ?", q.ClassNames)
		}
	case repositories.FacetCamera:
		columns = append(columns, "i.camera_id")
		groups = append(groups, "i.camera_id")
		if len(q.CameraIDs) > 0 {
			query = query.Where("i.camera_id IN ?", q.CameraIDs)
		}
	}
	columns = append(columns, "COUNT(*) AS count")

	err := query.
		Select(strings.Join(columns, ", "), args...).
		Group(strings.Join(groups, ", ")).
		Order("bucket ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *StatisticsRepositoryImpl) WorkerOverview(ctx context.Context, q repositories.WorkerQuery) ([]repositories.WorkerCount, error) {
	work := r.base(ctx).
		Select("a.user_id, COUNT(DISTINCT a.image_id) AS work_count").
		Where("a.user_id IS NOT NULL")
	if q.From != nil {
		work = work.Where("a.date >= ?", q.From.UTC())
	}
	if q.To != nil {
		work = work.Where("a.date < ?", q.To.UTC())
	}
	work = work.Group("a.user_id")

	query := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.user_id, u.name AS user_name, COALESCE(w.work_count, 0) AS work_count").
		Joins("LEFT JOIN (?) AS w ON w.user_id = u.user_id", work).
		Where("u.user_type = ? AND u.approval_status = ? AND u.is_active = ?", models.UserTypeAnnotator, models.ApprovalApproved, true)
	if q.UserID != nil {
		query = query.Where("u.user_id = ?", *q.UserID)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(u.name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}

	rows := []repositories.WorkerCount{}
	err := query.
		Order("work_count DESC").
		Order("u.name ASC").
		Order("u.user_id ASC").
		Scan(&rows).Error
	return rows, err
}
