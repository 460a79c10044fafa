package http

import (
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/cakesweet/storefront/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Types ---

// MessageResponse is the standard response shape for user-facing messages.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

// --- Response Helpers ---

// respondMessage sends a 200 OK response with a message.
func respondMessage(c *gin.Context, mensaje string) {
	c.JSON(http.StatusOK, MessageResponse{Mensaje: mensaje})
}

// respondError sends an error response in the caller's preferred format:
// JSON for API clients, a redirect to login with the message for browsers.
func respondError(c *gin.Context, status int, mensaje string) {
	if auth.WantsJSON(c) {
		c.JSON(status, MessageResponse{Mensaje: mensaje})
		return
	}
	c.Redirect(http.StatusFound, "/login?mensaje="+url.QueryEscape(mensaje))
}

// respondInternalError logs the error and sends a generic 500 without
// leaking internals to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	respondError(c, http.StatusInternalServerError, auth.MsgInternalError)
}
