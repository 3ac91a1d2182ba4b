package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReadLogsOptions options for reading logs
type ReadLogsOptions struct {
	Category Category // empty = all
	Level    Level    // empty = all
	Lines    int      // default 100, max 1000
	Search   string   // matched against message, action and error
}

// StoredEntry is one decoded line of app.log
type StoredEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     Level                  `json:"level"`
	Category  Category               `json:"category"`
	Action    string                 `json:"action"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ReadLogs reads entries of the default logger, newest first
func ReadLogs(opts ReadLogsOptions) ([]StoredEntry, error) {
	return Default().ReadLogs(opts)
}

func (l *Logger) ReadLogs(opts ReadLogsOptions) ([]StoredEntry, error) {
	if opts.Lines <= 0 {
		opts.Lines = 100
	}
	if opts.Lines > 1000 {
		opts.Lines = 1000
	}
	entries := []StoredEntry{}
	if l.dir == "" {
		return entries, nil
	}

	f, err := os.Open(filepath.Join(l.dir, "app.log"))
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry StoredEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entry.Level = Level(strings.ToUpper(string(entry.Level)))
		if opts.Level != "" && entry.Level != Level(strings.ToUpper(string(opts.Level))) {
			continue
		}
		if opts.Category != "" && entry.Category != opts.Category {
			continue
		}
		if opts.Search != "" &&
			!containsIgnoreCase(entry.Message, opts.Search) &&
			!containsIgnoreCase(entry.Action, opts.Search) &&
			!containsIgnoreCase(entry.Error, opts.Search) {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// file order is oldest first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > opts.Lines {
		entries = entries[:opts.Lines]
	}
	return entries, nil
}

// Dir returns the log directory of the default logger
func Dir() string {
	return Default().dir
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// LogFile describes one file in the log directory
type LogFile struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// ListLogFiles lists *.log files of the default logger directory
func ListLogFiles() ([]LogFile, error) {
	files := []LogFile{}
	dir := Dir()
	if dir == "" {
		return files, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		files = append(files, LogFile{Name: info.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return files, nil
}
