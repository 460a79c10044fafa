package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the HTTP cookie that carries the session token for browsers.
const CookieName = "token"

// WantsJSON decides once per request whether the caller is an API client
// (JSON responses) or a browser (redirects and rendered pages). Every gate,
// filter and handler consumes this instead of re-negotiating ad hoc.
func WantsJSON(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		return true
	}
	if strings.Contains(c.ContentType(), "application/json") {
		return true
	}
	// A Bearer attempt, even an invalid one, marks an API client.
	return strings.HasPrefix(strings.ToLower(c.GetHeader("Authorization")), "bearer ")
}

// ExtractToken pulls the session token from the request: the Authorization
// header takes precedence, then the cookie.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// SetTokenCookie stores the session token in an httpOnly, SameSite=Lax cookie.
func SetTokenCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", secure, true)
}

// ClearTokenCookie removes the session token cookie from the client.
func ClearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
