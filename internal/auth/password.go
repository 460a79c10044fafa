package auth

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrPasswordTooLong = errors.New("password exceeds maximum length of 72 bytes")
)

// legacyHashPattern matches the unsalted MD5 hex digests the old deployment
// stored. Anything else in the password column is treated as bcrypt.
var legacyHashPattern = regexp.MustCompile(`(?i)^[a-f0-9]{32}$`)

// IsLegacyHash reports whether a stored hash is in the legacy MD5 format,
// decided purely by structural inspection.
func IsLegacyHash(hash string) bool {
	return legacyHashPattern.MatchString(hash)
}

// LegacyDigest computes the legacy MD5 hex digest of a password.
// Only used to verify pre-migration accounts, never to store new hashes.
func LegacyDigest(password string) string {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string, cost int) (string, error) {
	// bcrypt has a 72-byte limit
	if len(password) > 72 {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password with its bcrypt hash in constant time.
func CheckPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return err
	}
	return nil
}
