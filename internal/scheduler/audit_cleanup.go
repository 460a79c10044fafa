package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/tasks"
)

// AuditCleanupScheduler periodically enqueues a cleanup task that prunes
// old login events.
type AuditCleanupScheduler struct {
	taskClient   *tasks.Client
	auditService *audit.Service
	cfg          config.Audit

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a new scheduler instance. taskClient may
// be nil when the task queue is disabled; cleanup then runs inline.
func NewAuditCleanupScheduler(taskClient *tasks.Client, auditService *audit.Service, cfg config.Audit) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		taskClient:   taskClient,
		auditService: auditService,
		cfg:          cfg,
		cron:         cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.CleanupSchedule == "" {
		log.Printf("Audit cleanup scheduler: disabled (no schedule configured)")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.CleanupSchedule, func() {
		s.runCleanup()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.CleanupSchedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Audit cleanup scheduler: started with schedule '%s' (retention %d days)",
		s.cfg.CleanupSchedule, s.cfg.RetentionDays)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Audit cleanup scheduler: stopped")
}

// RunNow triggers an immediate cleanup.
func (s *AuditCleanupScheduler) RunNow() {
	go s.runCleanup()
}

// IsRunning returns whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur.
func (s *AuditCleanupScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runCleanup enqueues the cleanup task, or runs it inline when the task
// queue is unavailable.
func (s *AuditCleanupScheduler) runCleanup() {
	task := tasks.CleanupLoginEventsTask{RetentionDays: s.cfg.RetentionDays}

	if s.taskClient != nil {
		if _, err := s.taskClient.Add(task).Save(); err != nil {
			log.Printf("Audit cleanup: failed to enqueue task: %v", err)
		}
		return
	}

	retention := time.Duration(s.cfg.RetentionDays) * 24 * time.Hour
	deleted, err := s.auditService.DeleteOldEvents(retention)
	if err != nil {
		log.Printf("Audit cleanup: %v", err)
		return
	}
	log.Printf("Audit cleanup: removed %d login events older than %d days", deleted, s.cfg.RetentionDays)
}
