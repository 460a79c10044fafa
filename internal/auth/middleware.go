package auth

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated identity
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
)

// Middleware is the request gate protecting private route groups. Each
// request ends up in one of four states: no-token, valid, expired or invalid.
// Only "valid" passes control downstream.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware creates the auth gate around a token manager.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// RequireAuth returns a Gin handler that admits only requests carrying a
// valid session token (Bearer header first, cookie fallback).
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			m.reject(c, http.StatusForbidden, MsgLoginRequired, false)
			return
		}

		claims, err := m.tokens.Parse(token)
		switch {
		case errors.Is(err, ErrTokenExpired):
			m.reject(c, http.StatusUnauthorized, MsgSessionExpired, true)
		case err != nil:
			m.reject(c, http.StatusUnauthorized, MsgTokenInvalid, true)
		default:
			c.Set(ContextKeyUserID, claims.UserID)
			c.Set(ContextKeyUsername, claims.Username)
			c.Next()
		}
	}
}

// reject stops the pipeline with the format the caller prefers: a JSON body
// for API clients, a redirect to the login page for browsers. Stale cookies
// are cleared so the browser does not resubmit a dead token.
func (m *Middleware) reject(c *gin.Context, status int, mensaje string, clearCookie bool) {
	if clearCookie {
		ClearTokenCookie(c)
	}

	if WantsJSON(c) {
		c.AbortWithStatusJSON(status, gin.H{"mensaje": mensaje})
		return
	}

	c.Redirect(http.StatusFound, "/login?mensaje="+url.QueryEscape(mensaje))
	c.Abort()
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 when the request did not pass the gate.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}
