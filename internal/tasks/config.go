package tasks

import "time"

// Config tunes the background queue. Values arrive from the TASK_*
// environment variables; zero fields are filled from DefaultConfig before
// the client starts.
type Config struct {
	// Workers is how many tasks may run concurrently.
	Workers int

	// MaxRetries and RetryDelay bound the retry loop for failed tasks.
	MaxRetries int
	RetryDelay time.Duration

	// TaskTimeout cancels a task's context after this long.
	TaskTimeout time.Duration

	// ReleaseAfter returns a claimed-but-stuck task to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval and RetentionDuration control how long finished
	// tasks stay visible before the periodic sweep removes them.
	CleanupInterval   time.Duration
	RetentionDuration time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}

// withDefaults fills zero fields so a partially configured queue still runs
// with sane settings.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = d.MaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = d.RetryDelay
	}
	if c.TaskTimeout <= 0 {
		c.TaskTimeout = d.TaskTimeout
	}
	if c.ReleaseAfter <= 0 {
		c.ReleaseAfter = d.ReleaseAfter
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = d.CleanupInterval
	}
	if c.RetentionDuration <= 0 {
		c.RetentionDuration = d.RetentionDuration
	}
	return c
}
