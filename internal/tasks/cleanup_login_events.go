package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// LoginEventCleaner provides the ability to delete old login events.
type LoginEventCleaner interface {
	DeleteOldEvents(retention time.Duration) (int64, error)
}

// CleanupLoginEventsTask removes login events older than the configured
// retention period.
type CleanupLoginEventsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for login event cleanup tasks.
func (t CleanupLoginEventsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_login_events",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupLoginEventsProcessor creates a processor function for
// CleanupLoginEventsTask.
func CleanupLoginEventsProcessor(cleaner LoginEventCleaner) backlite.QueueProcessor[CleanupLoginEventsTask] {
	return func(ctx context.Context, task CleanupLoginEventsTask) error {
		if cleaner == nil {
			return fmt.Errorf("login event cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 30
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOldEvents(retention)
		if err != nil {
			return fmt.Errorf("cleanup login events: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d login events older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupLoginEventsQueue creates a backlite queue for login event cleanup.
func NewCleanupLoginEventsQueue(cleaner LoginEventCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupLoginEventsProcessor(cleaner))
}
