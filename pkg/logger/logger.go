package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryAPI        Category = "api"
	CategoryDB         Category = "db"
	CategoryAnnotation Category = "annotation"
	CategoryStats      Category = "stats"
	CategoryStorage    Category = "storage"
	CategoryInference  Category = "inference"
	CategoryAdmin      Category = "admin"
	CategoryWebSocket  Category = "websocket"
	CategoryScheduler  Category = "scheduler"
	CategoryStartup    Category = "startup"
)

// Level represents log level
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// LogEntry represents a structured log entry
type LogEntry struct {
	Level     Level
	Category  Category
	Action    string
	Message   string
	Data      map[string]interface{}
	UserID    string
	RequestID string
	Duration  string
	Error     string
}

// Logger wraps a zap logger with the category/action helpers used across the codebase
type Logger struct {
	zap  *zap.Logger
	file *os.File
	dir  string
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// Init initializes the default logger. JSON lines go to logDir/app.log; console adds a human readable core on stdout.
func Init(logDir string, console bool) error {
	l, err := NewLogger(logDir, console)
	if err != nil {
		return err
	}
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

// NewLogger creates a new logger
func NewLogger(logDir string, console bool) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(logDir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.MessageKey = "message"
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), zap.DebugLevel),
	}
	if console {
		consoleCfg := zap.NewDevelopmentEncoderConfig()
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stdout), zap.DebugLevel))
	}

	return &Logger{zap: zap.New(zapcore.NewTee(cores...)), file: file, dir: logDir}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// Log writes a log entry
func (l *Logger) Log(entry LogEntry) {
	fields := []zap.Field{
		zap.String("category", string(entry.Category)),
		zap.String("action", entry.Action),
	}
	if len(entry.Data) > 0 {
		fields = append(fields, zap.Any("data", entry.Data))
	}
	if entry.UserID != "" {
		fields = append(fields, zap.String("user_id", entry.UserID))
	}
	if entry.RequestID != "" {
		fields = append(fields, zap.String("request_id", entry.RequestID))
	}
	if entry.Duration != "" {
		fields = append(fields, zap.String("duration", entry.Duration))
	}
	if entry.Error != "" {
		fields = append(fields, zap.String("error", entry.Error))
	}

	switch entry.Level {
	case LevelDebug:
		l.zap.Debug(entry.Message, fields...)
	case LevelWarn:
		l.zap.Warn(entry.Message, fields...)
	case LevelError:
		l.zap.Error(entry.Message, fields...)
	default:
		l.zap.Info(entry.Message, fields...)
	}
}

// Close flushes buffered entries and closes the log file
func (l *Logger) Close() {
	_ = l.zap.Sync()
	if l.file != nil {
		l.file.Close()
	}
}

// Default returns the default logger
func Default() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		// Not initialized (tests, tools): stay quiet instead of creating log files
		defaultLogger = NewNop()
	}
	return defaultLogger
}

// SetDefault replaces the default logger
func SetDefault(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Sync flushes the default logger
func Sync() {
	Default().Close()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Helper functions for common log operations

// Auth logs authentication related events
func Auth(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryAuth, Action: action, Message: message, Data: data})
}

// AuthError logs authentication errors
func AuthError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryAuth, Action: action, Message: message, Error: errString(err), Data: data})
}

// API logs API request/response events
func API(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryAPI, Action: action, Message: message, Data: data})
}

// DB logs database operations
func DB(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelDebug, Category: CategoryDB, Action: action, Message: message, Data: data})
}

// Annotation logs annotation reconciliation events
func Annotation(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryAnnotation, Action: action, Message: message, Data: data})
}

// Storage logs object storage operations
func Storage(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryStorage, Action: action, Message: message, Data: data})
}

// StorageError logs object storage errors
func StorageError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryStorage, Action: action, Message: message, Error: errString(err), Data: data})
}

// Inference logs model inference calls
func Inference(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryInference, Action: action, Message: message, Data: data})
}

// InferenceError logs model inference errors
func InferenceError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryInference, Action: action, Message: message, Error: errString(err), Data: data})
}

// Admin logs moderation actions
func Admin(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryAdmin, Action: action, Message: message, Data: data})
}

// WebSocket logs WebSocket related events
func WebSocket(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryWebSocket, Action: action, Message: message, Data: data})
}

// WebSocketError logs WebSocket errors
func WebSocketError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryWebSocket, Action: action, Message: message, Error: errString(err), Data: data})
}

// Scheduler logs scheduler events
func Scheduler(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryScheduler, Action: action, Message: message, Data: data})
}

// SchedulerWarn logs scheduler warnings
func SchedulerWarn(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelWarn, Category: CategoryScheduler, Action: action, Message: message, Data: data})
}

// SchedulerError logs scheduler errors
func SchedulerError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryScheduler, Action: action, Message: message, Error: errString(err), Data: data})
}

// Startup logs startup/initialization events
func Startup(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: CategoryStartup, Action: action, Message: message, Data: data})
}

// StartupError logs startup errors
func StartupError(action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: CategoryStartup, Action: action, Message: message, Error: errString(err), Data: data})
}

// StartupWarn logs startup warnings
func StartupWarn(action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelWarn, Category: CategoryStartup, Action: action, Message: message, Data: data})
}

// Info logs info level message
func Info(category Category, action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelInfo, Category: category, Action: action, Message: message, Data: data})
}

// Error logs error level message
func Error(category Category, action, message string, err error, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelError, Category: category, Action: action, Message: message, Error: errString(err), Data: data})
}

// Debug logs debug level message
func Debug(category Category, action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelDebug, Category: category, Action: action, Message: message, Data: data})
}

// Warn logs warning level message
func Warn(category Category, action, message string, data map[string]interface{}) {
	Default().Log(LogEntry{Level: LevelWarn, Category: category, Action: action, Message: message, Data: data})
}

// Request logs a finished HTTP request
func Request(entry LogEntry) {
	entry.Category = CategoryAPI
	if entry.Level == "" {
		entry.Level = LevelInfo
	}
	Default().Log(entry)
}

// GetTypeName returns the dynamic type name of v
func GetTypeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
