// Package audit provides database operations for login event records.
package audit

import (
	"time"

	"gorm.io/gorm"

	"github.com/cakesweet/storefront/internal/entities"
)

// Repository handles login event persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new audit repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent stores a single login event.
func (r *Repository) LogEvent(event *entities.LoginEvent) error {
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated login events, most recent first.
func (r *Repository) GetEvents(limit, offset int) ([]entities.LoginEvent, int64, error) {
	var events []entities.LoginEvent
	var total int64

	if err := r.db.Model(&entities.LoginEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// DeleteOldEvents removes login events created before the cutoff time.
// Returns the number of deleted rows.
func (r *Repository) DeleteOldEvents(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entities.LoginEvent{})
	return result.RowsAffected, result.Error
}
