package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cakesweet/storefront/internal/config"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"usuario"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed session tokens. The signing secret
// and expiry window come from configuration at startup and never change.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager creates a token manager from the auth configuration.
func NewTokenManager(cfg config.Auth) *TokenManager {
	expiry := cfg.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		expiry: expiry,
	}
}

// Expiry returns the configured token lifetime.
func (tm *TokenManager) Expiry() time.Duration {
	return tm.expiry
}

// Issue creates a signed token for the given user identity.
func (tm *TokenManager) Issue(userID uint, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse validates a token string and returns its claims. Expired tokens are
// reported as ErrTokenExpired; every other failure maps to ErrTokenInvalid.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
