// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByUsername("alice")
package users

import (
	"gorm.io/gorm"

	"github.com/cakesweet/storefront/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user with an already-hashed password.
func (r *Repository) CreateUser(username, passwordHash string) (*entities.User, error) {
	user := &entities.User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username. The lookup is case-sensitive.
func (r *Repository) GetByUsername(username string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReplacePasswordHash swaps the stored hash for a user, but only if it still
// equals oldHash. Two concurrent logins by the same legacy user may both try
// the upgrade; whichever loses the race finds zero affected rows, which is not
// an error since an equivalent hash is already in place.
func (r *Repository) ReplacePasswordHash(id uint, oldHash, newHash string) error {
	result := r.db.Model(&entities.User{}).
		Where("id = ? AND password = ?", id, oldHash).
		Update("password", newHash)
	return result.Error
}
