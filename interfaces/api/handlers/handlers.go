package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"inspection-api/domain/services"
	"inspection-api/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	AuthService        services.AuthService
	UserService        services.UserService
	AdminService       services.AdminService
	CameraService      services.CameraService
	DefectClassService services.DefectClassService
	ImageService       services.ImageService
	AnnotationService  services.AnnotationService
	StatisticsService  services.StatisticsService
	ActivityLogService services.ActivityLogService
}

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Admin       *AdminHandler
	Camera      *CameraHandler
	DefectClass *DefectClassHandler
	Image       *ImageHandler
	Annotation  *AnnotationHandler
	Statistics  *StatisticsHandler
	ActivityLog *ActivityLogHandler
	Log         *LogHandler
	Health      *HealthHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(svc *Services, health *HealthHandler, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(svc.AuthService, cfg.App.FrontendURL, cfg.App.Env == "production", cfg.JWT.TTL),
		User:        NewUserHandler(svc.UserService),
		Admin:       NewAdminHandler(svc.AdminService),
		Camera:      NewCameraHandler(svc.CameraService),
		DefectClass: NewDefectClassHandler(svc.DefectClassService),
		Image:       NewImageHandler(svc.ImageService),
		Annotation:  NewAnnotationHandler(svc.AnnotationService),
		Statistics:  NewStatisticsHandler(svc.StatisticsService, cfg.App.Location()),
		ActivityLog: NewActivityLogHandler(svc.ActivityLogService),
		Log:         NewLogHandler(),
		Health:      health,
	}
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
