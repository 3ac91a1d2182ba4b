package logger

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, false)
	require.NoError(t, err)

	SetDefault(l)
	t.Cleanup(func() { SetDefault(NewNop()) })

	Annotation("reconciled", "Annotations reconciled", map[string]interface{}{"image_id": 7})
	Error(CategoryStorage, "delete_failed", "Object delete failed", errors.New("denied"), nil)
	l.Close()

	raw, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "annotation", first["category"])
	assert.Equal(t, "reconciled", first["action"])
	assert.Equal(t, "Annotations reconciled", first["message"])

	var second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "denied", second["error"])
}

func TestDefaultIsQuietWhenUninitialized(t *testing.T) {
	SetDefault(nil)
	assert.NotPanics(t, func() {
		Info(CategoryAPI, "noop", "nothing happens", nil)
	})
}

func TestGetTypeName(t *testing.T) {
	assert.Equal(t, "nil", GetTypeName(nil))
	assert.Equal(t, "string", GetTypeName("x"))
}

func TestReadLogsFiltersNewestFirst(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLogger(dir, false)
	require.NoError(t, err)

	l.Log(LogEntry{Level: LevelInfo, Category: CategoryAuth, Action: "login", Message: "first"})
	l.Log(LogEntry{Level: LevelError, Category: CategoryStorage, Action: "put_failed", Message: "second", Error: "bucket missing"})
	l.Log(LogEntry{Level: LevelInfo, Category: CategoryAuth, Action: "login", Message: "third"})
	require.NoError(t, l.zap.Sync())

	entries, err := l.ReadLogs(ReadLogsOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Message)
	assert.False(t, entries[0].Timestamp.IsZero())

	entries, err = l.ReadLogs(ReadLogsOptions{Level: "error"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LevelError, entries[0].Level)

	entries, err = l.ReadLogs(ReadLogsOptions{Category: CategoryAuth, Lines: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "third", entries[0].Message)

	entries, err = l.ReadLogs(ReadLogsOptions{Search: "BUCKET"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	l.Close()
}

func TestReadLogsWithoutFile(t *testing.T) {
	entries, err := NewNop().ReadLogs(ReadLogsOptions{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
