package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	gotRetention time.Duration
	deleted      int64
	err          error
}

func (f *fakeCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	f.gotRetention = retention
	return f.deleted, f.err
}

func TestCleanupLoginEventsTask_Config(t *testing.T) {
	cfg := CleanupLoginEventsTask{}.Config()

	assert.Equal(t, "cleanup_login_events", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestCleanupLoginEventsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{deleted: 12}
	processor := CleanupLoginEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupLoginEventsTask{RetentionDays: 7})

	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cleaner.gotRetention)
}

func TestCleanupLoginEventsProcessor_DefaultRetention(t *testing.T) {
	cleaner := &fakeCleaner{}
	processor := CleanupLoginEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupLoginEventsTask{})

	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cleaner.gotRetention)
}

func TestCleanupLoginEventsProcessor_PropagatesError(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("db locked")}
	processor := CleanupLoginEventsProcessor(cleaner)

	err := processor(context.Background(), CleanupLoginEventsTask{RetentionDays: 30})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestCleanupLoginEventsProcessor_NilCleaner(t *testing.T) {
	processor := CleanupLoginEventsProcessor(nil)

	err := processor(context.Background(), CleanupLoginEventsTask{RetentionDays: 30})

	assert.Error(t, err)
}
