package handlers

import (
	"github.com/gofiber/fiber/v2"

	"inspection-api/pkg/logger"
	"inspection-api/pkg/utils"
)

// LogHandler serves the application log file to admins
type LogHandler struct{}

func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

// GetLogs returns log entries, newest first
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	opts := logger.ReadLogsOptions{
		Lines:    c.QueryInt("lines", 100),
		Level:    logger.Level(c.Query("level")),
		Category: logger.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	entries, err := logger.ReadLogs(opts)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read logs", err)
	}

	return utils.SuccessResponse(c, "Logs retrieved", fiber.Map{
		"entries": entries,
		"count":   len(entries),
		"filters": fiber.Map{
			"lines":    opts.Lines,
			"level":    opts.Level,
			"category": opts.Category,
			"search":   opts.Search,
		},
	})
}

// GetLogFiles returns list of log files
func (h *LogHandler) GetLogFiles(c *fiber.Ctx) error {
	files, err := logger.ListLogFiles()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list log files", err)
	}
	return utils.SuccessResponse(c, "Log files retrieved", fiber.Map{
		"files":  files,
		"logDir": logger.Dir(),
	})
}

// GetLogStats counts the latest entries by level and category
func (h *LogHandler) GetLogStats(c *fiber.Ctx) error {
	entries, err := logger.ReadLogs(logger.ReadLogsOptions{Lines: 1000})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read logs", err)
	}

	levelCounts := map[string]int{
		string(logger.LevelDebug): 0,
		string(logger.LevelInfo):  0,
		string(logger.LevelWarn):  0,
		string(logger.LevelError): 0,
	}
	categoryCounts := map[string]int{}
	for _, entry := range entries {
		levelCounts[string(entry.Level)]++
		categoryCounts[string(entry.Category)]++
	}

	var totalSize int64
	files, _ := logger.ListLogFiles()
	for _, f := range files {
		totalSize += f.Size
	}

	return utils.SuccessResponse(c, "Log statistics", fiber.Map{
		"total_entries":    len(entries),
		"by_level":         levelCounts,
		"by_category":      categoryCounts,
		"total_files":      len(files),
		"total_size_bytes": totalSize,
	})
}
