package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Google    GoogleOAuthConfig
	Naver     NaverOAuthConfig
	Storage   StorageConfig
	Inference InferenceConfig
	RateLimit RateLimitConfig
	Audit     AuditConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	TimeZone    string
	FrontendURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type NaverOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type StorageConfig struct {
	Bucket          string
	PublicBaseURL   string
	CredentialsFile string
}

type InferenceConfig struct {
	BaseURL string
	Timeout time.Duration
	// Minimum confidence every detection must reach for an upload to be auto-completed
	AutoCompleteThreshold float64
}

type RateLimitConfig struct {
	Enabled           bool
	MaxRequests       int
	WindowSeconds     int
	AuthMaxRequests   int
	AuthWindowSeconds int
}

type AuditConfig struct {
	RetentionDays int
	CleanupCron   string
}

// Location resolves the configured application time zone
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	threshold, err := strconv.ParseFloat(getEnv("INFERENCE_AUTO_COMPLETE_THRESHOLD", "0.75"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid INFERENCE_AUTO_COMPLETE_THRESHOLD: %w", err)
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("INFERENCE_AUTO_COMPLETE_THRESHOLD must be within [0,1], got %v", threshold)
	}

	tz := getEnv("APP_TIMEZONE", "UTC")
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", tz, err)
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Inspection API"),
			Port:        getEnv("APP_PORT", "3000"),
			Env:         getEnv("APP_ENV", "development"),
			TimeZone:    tz,
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "inspection"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			TTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		},
		Google: GoogleOAuthConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:3000/api/v1/auth/google/callback"),
		},
		Naver: NaverOAuthConfig{
			ClientID:     getEnv("NAVER_CLIENT_ID", ""),
			ClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("NAVER_REDIRECT_URL", "http://localhost:3000/api/v1/auth/naver/callback"),
		},
		Storage: StorageConfig{
			Bucket:          getEnv("STORAGE_BUCKET", ""),
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_BASE_URL", ""),
			CredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		},
		Inference: InferenceConfig{
			BaseURL:               getEnv("INFERENCE_URL", "http://localhost:8000"),
			Timeout:               time.Duration(getEnvInt("INFERENCE_TIMEOUT_SECONDS", 60)) * time.Second,
			AutoCompleteThreshold: threshold,
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			MaxRequests:       getEnvInt("RATE_LIMIT_MAX", 300),
			WindowSeconds:     getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			AuthMaxRequests:   getEnvInt("RATE_LIMIT_AUTH_MAX", 20),
			AuthWindowSeconds: getEnvInt("RATE_LIMIT_AUTH_WINDOW_SECONDS", 60),
		},
		Audit: AuditConfig{
			RetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 90),
			CleanupCron:   getEnv("AUDIT_CLEANUP_CRON", "0 3 * * *"),
		},
	}

	if config.Storage.PublicBaseURL == "" && config.Storage.Bucket != "" {
		config.Storage.PublicBaseURL = "https://storage.googleapis.com/" + config.Storage.Bucket
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
