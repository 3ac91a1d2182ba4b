package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"inspection-api/domain/models"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	"inspection-api/infrastructure/postgres"
)

const cdnPrefix = "https://cdn.test/"

// repos bundles the sqlite-backed repositories the services run against
type repos struct {
	db          *gorm.DB
	users       repositories.UserRepository
	cameras     repositories.CameraRepository
	classes     repositories.DefectClassRepository
	images      repositories.ImageRepository
	annotations repositories.AnnotationRepository
	stats       repositories.StatisticsRepository
	activity    repositories.ActivityLogRepository
}

func newRepos(t *testing.T) *repos {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, postgres.Migrate(db))

	return &repos{
		db:          db,
		users:       postgres.NewUserRepository(db),
		cameras:     postgres.NewCameraRepository(db),
		classes:     postgres.NewDefectClassRepository(db),
		images:      postgres.NewImageRepository(db),
		annotations: postgres.NewAnnotationRepository(db),
		stats:       postgres.NewStatisticsRepository(db),
		activity:    postgres.NewActivityLogRepository(db),
	}
}

func (r *repos) camera(t *testing.T, line string, active bool) models.Camera {
	t.Helper()
	c := models.Camera{LineName: line, IsActive: active}
	require.NoError(t, r.db.Create(&c).Error)
	return c
}

func (r *repos) class(t *testing.T, name, color string, active bool) models.DefectClass {
	t.Helper()
	c := models.DefectClass{ClassName: name, ClassColor: color, IsActive: active}
	require.NoError(t, r.db.Create(&c).Error)
	return c
}

func (r *repos) user(t *testing.T, email string, role models.UserType) models.User {
	t.Helper()
	u := models.User{
		Email:          email,
		Name:           strings.Split(email, "@")[0],
		UserType:       role,
		ApprovalStatus: models.ApprovalApproved,
		IsActive:       true,
	}
	require.NoError(t, r.db.Create(&u).Error)
	return u
}

func (r *repos) image(t *testing.T, cameraID uint, status models.ImageStatus, at time.Time) models.Image {
	t.Helper()
	img := models.Image{
		FilePath: fmt.Sprintf("%s%d/%d.png", cdnPrefix, cameraID, at.UnixNano()),
		Date:     at.UTC(),
		CameraID: cameraID,
		Status:   status,
	}
	require.NoError(t, r.db.Omit(clause.Associations).Create(&img).Error)
	return img
}

func (r *repos) annotation(t *testing.T, imageID, classID uint, at time.Time, conf *float64, active bool) models.Annotation {
	t.Helper()
	a := models.Annotation{
		ImageID:     imageID,
		ClassID:     classID,
		Date:        at.UTC(),
		ConfScore:   conf,
		BoundingBox: datatypes.NewJSONType(models.BoundingBox{XCenter: 0.5, YCenter: 0.5, W: 0.2, H: 0.2}),
		IsActive:    active,
	}
	require.NoError(t, r.db.Omit(clause.Associations).Create(&a).Error)
	return a
}

func (r *repos) countLogs(t *testing.T, activity models.ActivityType) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.db.Model(&models.ActivityLog{}).Where("activity_type = ?", activity).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }

// pngBytes renders a small solid image
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return cdnPrefix + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, cdnPrefix) {
		return "", false
	}
	return strings.TrimPrefix(url, cdnPrefix), true
}

type fakeInference struct {
	detections []services.Detection
	err        error
	calls      []string
}

func (f *fakeInference) Predict(_ context.Context, url string) ([]services.Detection, error) {
	f.calls = append(f.calls, url)
	return f.detections, f.err
}

func (f *fakeInference) Health(context.Context) error { return f.err }

var errInferenceDown = errors.New("inference down")

type published struct {
	event   string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{event: event, payload: payload})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.event)
	}
	return out
}

func admin(id uint) services.Requester {
	return services.Requester{UserID: id, Role: models.UserTypeAdmin}
}

func annotator(id uint) services.Requester {
	return services.Requester{UserID: id, Role: models.UserTypeAnnotator}
}
