package postgres

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inspection-api/domain/models"
	apperrors "inspection-api/pkg/errors"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)

	level := gormlogger.Warn
	if config.Debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Camera{},
		&models.UserCamera{},
		&models.DefectClass{},
		&models.Image{},
		&models.Annotation{},
		&models.ActivityLog{},
	); err != nil {
		return fmt.Errorf("failed to run auto migrations: %v", err)
	}

	return nil
}

// notFound maps gorm.ErrRecordNotFound to a not_found application error
func notFound(err error, kind string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(kind, id)
	}
	return err
}
