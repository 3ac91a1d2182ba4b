package di

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"inspection-api/application/serviceimpl"
	"inspection-api/domain/repositories"
	"inspection-api/domain/services"
	"inspection-api/infrastructure/inference"
	"inspection-api/infrastructure/oauth"
	"inspection-api/infrastructure/postgres"
	"inspection-api/infrastructure/redis"
	"inspection-api/infrastructure/storage"
	"inspection-api/infrastructure/websocket"
	"inspection-api/interfaces/api/handlers"
	"inspection-api/interfaces/api/routes"
	"inspection-api/pkg/config"
	"inspection-api/pkg/logger"
	"inspection-api/pkg/scheduler"
)

const (
	auditCleanupJobID = "audit-cleanup"
	breakerThreshold  = 5
	breakerReset      = 30 * time.Second
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *goredis.Client
	LimiterStorage fiber.Storage
	ObjectStore    services.ObjectStore
	Inference      services.InferenceClient
	Providers      []services.IdentityProvider
	Hub            *websocket.Hub
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository        repositories.UserRepository
	CameraRepository      repositories.CameraRepository
	DefectClassRepository repositories.DefectClassRepository
	ImageRepository       repositories.ImageRepository
	AnnotationRepository  repositories.AnnotationRepository
	StatisticsRepository  repositories.StatisticsRepository
	ActivityLogRepository repositories.ActivityLogRepository

	// Services
	AuthService        services.AuthService
	UserService        services.UserService
	AdminService       services.AdminService
	CameraService      services.CameraService
	DefectClassService services.DefectClassService
	ImageService       services.ImageService
	AnnotationService  services.AnnotationService
	StatisticsService  services.StatisticsService
	ActivityLogService services.ActivityLogService

	gcs *storage.GCSStore
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Startup("config_loaded", "Configuration loaded", map[string]interface{}{
		"env":      cfg.App.Env,
		"timezone": cfg.App.TimeZone,
	})
	return nil
}

func (c *Container) initInfrastructure() error {
	ctx := context.Background()

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		Debug:    c.Config.App.Env == "development",
	})
	if err != nil {
		return err
	}
	c.DB = db
	logger.Startup("db_connected", "Database connected", nil)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Startup("db_migrated", "Database migrated", nil)

	// Redis is optional; without it rate limit counters stay in process memory
	rdb, err := redis.NewClient(ctx, c.Config.Redis)
	if err != nil {
		logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
	} else {
		c.RedisClient = rdb
		c.LimiterStorage = redis.NewStorage(rdb, "ratelimit:")
		logger.Startup("redis_connected", "Redis connected", nil)
	}

	gcs, err := storage.NewGCSStore(ctx, c.Config.Storage)
	switch {
	case err == nil:
		c.gcs = gcs
		c.ObjectStore = gcs
		logger.Startup("object_store_initialized", "Cloud Storage initialized", map[string]interface{}{"bucket": c.Config.Storage.Bucket})
	case errors.Is(err, storage.ErrNotConfigured):
		c.ObjectStore = storage.Unconfigured{}
		logger.StartupWarn("object_store_not_configured", "STORAGE_BUCKET not set, uploads will fail", nil)
	default:
		return err
	}

	c.Inference = inference.NewGuarded(
		inference.NewClient(c.Config.Inference.BaseURL, c.Config.Inference.Timeout),
		inference.NewCircuitBreaker(breakerThreshold, breakerReset),
	)
	logger.Startup("inference_initialized", "Inference client initialized", map[string]interface{}{"url": c.Config.Inference.BaseURL})

	c.initProviders()

	c.Hub = websocket.NewHub()
	return nil
}

func (c *Container) initProviders() {
	google := oauth.NewGoogleProvider(c.Config.Google)
	if err := google.ValidateConfig(); err != nil {
		logger.StartupWarn("google_oauth_not_configured", "Google OAuth not configured", map[string]interface{}{"error": err.Error()})
	} else {
		c.Providers = append(c.Providers, google)
	}

	naver := oauth.NewNaverProvider(c.Config.Naver)
	if err := naver.ValidateConfig(); err != nil {
		logger.StartupWarn("naver_oauth_not_configured", "Naver OAuth not configured", map[string]interface{}{"error": err.Error()})
	} else {
		c.Providers = append(c.Providers, naver)
	}

	logger.Startup("oauth_initialized", "OAuth providers initialized", map[string]interface{}{"count": len(c.Providers)})
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.CameraRepository = postgres.NewCameraRepository(c.DB)
	c.DefectClassRepository = postgres.NewDefectClassRepository(c.DB)
	c.ImageRepository = postgres.NewImageRepository(c.DB)
	c.AnnotationRepository = postgres.NewAnnotationRepository(c.DB)
	c.StatisticsRepository = postgres.NewStatisticsRepository(c.DB)
	c.ActivityLogRepository = postgres.NewActivityLogRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.AuthService = serviceimpl.NewAuthService(c.UserRepository, c.Providers, cfg.JWT.Secret, cfg.JWT.TTL)
	c.UserService = serviceimpl.NewUserService(c.UserRepository)
	c.AdminService = serviceimpl.NewAdminService(c.UserRepository, c.CameraRepository)
	c.CameraService = serviceimpl.NewCameraService(c.CameraRepository)
	c.DefectClassService = serviceimpl.NewDefectClassService(c.DefectClassRepository, c.ActivityLogRepository)
	c.ImageService = serviceimpl.NewImageService(
		c.ImageRepository,
		c.CameraRepository,
		c.DefectClassRepository,
		c.ObjectStore,
		c.Inference,
		c.Hub,
		cfg.Inference.AutoCompleteThreshold,
	)
	c.AnnotationService = serviceimpl.NewAnnotationService(c.ImageRepository, c.AnnotationRepository, c.DefectClassRepository, c.Hub)
	c.StatisticsService = serviceimpl.NewStatisticsService(c.StatisticsRepository, c.DefectClassRepository, c.CameraRepository, cfg.App.Location())
	c.ActivityLogService = serviceimpl.NewActivityLogService(c.ActivityLogRepository)

	logger.Startup("services_initialized", "Services initialized", nil)
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler(c.Config.App.Location())

	retention := c.Config.Audit.RetentionDays
	err := c.EventScheduler.AddJob(auditCleanupJobID, c.Config.Audit.CleanupCron, func() {
		deleted, err := c.ActivityLogService.Cleanup(context.Background(), retention)
		if err != nil {
			logger.SchedulerError("audit_cleanup_failed", "Activity log cleanup failed", err, nil)
			return
		}
		logger.Scheduler("audit_cleanup_done", "Activity log cleanup completed", map[string]interface{}{
			"deleted":        deleted,
			"retention_days": retention,
		})
	})
	if err != nil {
		logger.StartupWarn("audit_cleanup_schedule_failed", "Failed to schedule activity log cleanup", map[string]interface{}{"error": err.Error()})
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.gcs != nil {
		if err := c.gcs.Close(); err != nil {
			logger.StartupWarn("object_store_close_failed", "Failed to close Cloud Storage client", map[string]interface{}{"error": err.Error()})
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		AuthService:        c.AuthService,
		UserService:        c.UserService,
		AdminService:       c.AdminService,
		CameraService:      c.CameraService,
		DefectClassService: c.DefectClassService,
		ImageService:       c.ImageService,
		AnnotationService:  c.AnnotationService,
		StatisticsService:  c.StatisticsService,
		ActivityLogService: c.ActivityLogService,
	}
}

func (c *Container) GetHealthHandler() *handlers.HealthHandler {
	// a nil *goredis.Client must not become a non-nil interface
	var rdb goredis.UniversalClient
	if c.RedisClient != nil {
		rdb = c.RedisClient
	}
	return handlers.NewHealthHandler(c.DB, rdb, c.Inference)
}

func (c *Container) GetRouteDeps() routes.Deps {
	return routes.Deps{
		AuthService:    c.AuthService,
		Hub:            c.Hub,
		LimiterStorage: c.LimiterStorage,
	}
}
