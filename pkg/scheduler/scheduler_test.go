package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJobRejectsDuplicateID(t *testing.T) {
	s := NewEventScheduler(time.UTC)

	require.NoError(t, s.AddJob("audit-cleanup", "0 3 * * *", func() {}))
	err := s.AddJob("audit-cleanup", "0 4 * * *", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	info, ok := s.GetJob("audit-cleanup")
	require.True(t, ok)
	assert.Equal(t, "0 3 * * *", info.CronExpr)
	assert.Nil(t, info.LastRun)
}

func TestAddJobRejectsBadCron(t *testing.T) {
	s := NewEventScheduler(nil)

	assert.Error(t, s.AddJob("broken", "not a cron", func() {}))
	_, ok := s.GetJob("broken")
	assert.False(t, ok)
}

func TestRemoveJob(t *testing.T) {
	s := NewEventScheduler(time.UTC)
	require.NoError(t, s.AddJob("j", "*/5 * * * *", func() {}))

	require.NoError(t, s.RemoveJob("j"))
	_, ok := s.GetJob("j")
	assert.False(t, ok)
	assert.Error(t, s.RemoveJob("j"))
}

func TestStartStop(t *testing.T) {
	s := NewEventScheduler(time.UTC)
	assert.False(t, s.IsRunning())

	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}
