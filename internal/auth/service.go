package auth

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/database/users"
	"github.com/cakesweet/storefront/internal/entities"
)

const (
	// MinUsernameLength and MinPasswordLength match the registration rules
	// of the original deployment.
	MinUsernameLength = 3
	MinPasswordLength = 4
)

var (
	ErrMissingFields      = errors.New("usuario and password are required")
	ErrUsernameTooShort   = errors.New("username is too short")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Service handles registration and credential verification, including the
// transparent upgrade of legacy password hashes.
type Service struct {
	users  *users.Repository
	audit  *audit.Service
	config config.Auth
}

// NewService creates a new authentication service. The audit service may be
// nil, in which case hash migrations leave no trail.
func NewService(repo *users.Repository, auditService *audit.Service, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		audit:  auditService,
		config: cfg,
	}
}

// Register creates a new user account with a bcrypt-hashed password.
func (s *Service) Register(username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(username) < MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	_, err := s.users.GetByUsername(username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateUser(username, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the user. Unknown usernames
// and wrong passwords both yield ErrInvalidCredentials so the response never
// reveals whether an account exists.
//
// Accounts still carrying a legacy MD5 digest are verified against it and,
// on success, upgraded in place to bcrypt before this method returns.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if IsLegacyHash(user.PasswordHash) {
		if LegacyDigest(password) != user.PasswordHash {
			return nil, ErrInvalidCredentials
		}
		s.migrateLegacyHash(user, password)
		return user, nil
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// migrateLegacyHash replaces a verified legacy digest with a bcrypt hash.
// Best effort: the login already succeeded on the digest match, so any
// failure here is logged and swallowed. The write only lands if the stored
// hash still equals the legacy value, so concurrent logins cannot clobber a
// finished upgrade.
func (s *Service) migrateLegacyHash(user *entities.User, plaintext string) {
	newHash, err := HashPassword(plaintext, s.config.BcryptCost)
	if err != nil {
		log.Printf("Failed to compute upgraded hash for user %d: %v", user.ID, err)
		return
	}

	if err := s.users.ReplacePasswordHash(user.ID, user.PasswordHash, newHash); err != nil {
		log.Printf("Failed to migrate legacy password hash for user %d: %v", user.ID, err)
		return
	}
	user.PasswordHash = newHash

	if s.audit != nil {
		event := &entities.LoginEvent{
			UserID:   user.ID,
			Username: user.Username,
			Action:   entities.LoginActionMigrate,
			Status:   entities.LoginStatusSuccess,
		}
		if err := s.audit.Log(event); err != nil {
			log.Printf("Failed to record hash migration for user %d: %v", user.ID, err)
		}
	}
}
