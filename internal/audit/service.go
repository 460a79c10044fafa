// Package audit keeps a trail of authentication activity.
package audit

import (
	"log"
	"time"

	"github.com/cakesweet/storefront/internal/database/audit"
	"github.com/cakesweet/storefront/internal/entities"
)

// Service provides high-level login event logging.
type Service struct {
	repo *audit.Repository
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a login event.
func (s *Service) Log(event *entities.LoginEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records a login event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.LoginEvent) {
	go func() {
		if err := s.repo.LogEvent(event); err != nil {
			log.Printf("Failed to log login event: %v", err)
		}
	}()
}

// LogAuth records an authentication action for a user.
func (s *Service) LogAuth(userID uint, username string, action entities.LoginAction, ipAddr, userAgent string, success bool) {
	event := &entities.LoginEvent{
		UserID:    userID,
		Username:  username,
		Action:    action,
		Status:    entities.LoginStatusSuccess,
		IPAddress: ipAddr,
		UserAgent: truncate(userAgent, 500),
	}

	if !success {
		event.Status = entities.LoginStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated login events.
func (s *Service) GetEvents(limit, offset int) ([]entities.LoginEvent, int64, error) {
	return s.repo.GetEvents(limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
