package auth

import (
	"fmt"
	"html"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// IPFilter restricts protected routes to a fixed set of client addresses.
// The allow-list is loaded once at startup and immutable afterwards; an empty
// list disables the filter. Matching is exact, no CIDR ranges.
//
// Composed after the auth gate on protected groups, so an unauthenticated
// request never reaches the IP check.
type IPFilter struct {
	allowed map[string]struct{}
}

// NewIPFilter builds a filter from the configured allow-list.
func NewIPFilter(allowedIPs []string) *IPFilter {
	allowed := make(map[string]struct{}, len(allowedIPs))
	for _, ip := range allowedIPs {
		allowed[ip] = struct{}{}
	}
	return &IPFilter{allowed: allowed}
}

// Enabled reports whether the filter has any addresses configured.
func (f *IPFilter) Enabled() bool {
	return len(f.allowed) > 0
}

// Handler returns a Gin middleware enforcing the allow-list.
func (f *IPFilter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !f.Enabled() {
			c.Next()
			return
		}

		clientIP := ClientAddress(c)
		if _, ok := f.allowed[clientIP]; ok {
			c.Next()
			return
		}

		mensaje := fmt.Sprintf("Acceso denegado: tu IP (%s) no tiene permiso para entrar.", clientIP)

		if WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"mensaje": mensaje,
			})
			return
		}

		c.Writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		c.Writer.WriteHeader(http.StatusForbidden)
		_, _ = c.Writer.WriteString(`<!DOCTYPE html>
<html lang="es">
<head><title>Acceso Denegado</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Acceso Denegado</h1>
<p>` + html.EscapeString(mensaje) + `</p>
</body>
</html>`)
		c.Abort()
	}
}

// ClientAddress resolves the client's network address: the left-most entry of
// the X-Forwarded-For chain when present, otherwise the connection peer.
// IPv4-mapped IPv6 notation is normalized to plain IPv4 before comparison.
func ClientAddress(c *gin.Context) string {
	addr := ""
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		addr = strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if addr == "" {
		addr = c.Request.RemoteAddr
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
	}
	return strings.TrimPrefix(addr, "::ffff:")
}
