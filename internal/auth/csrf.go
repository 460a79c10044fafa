package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFMiddleware creates a Gin middleware for CSRF protection on browser
// form submissions. API-negotiated requests are skipped: cross-site form
// posts cannot set JSON Accept/Content-Type headers or Bearer tokens, and
// API clients authenticate per-request with the token anyway.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		if WantsJSON(c) {
			c.Next()
			return
		}

		admitted := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admitted = true
			// Store the token in the context so forms can embed it
			c.Set("csrf_token", csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// On rejection gorilla/csrf writes the response itself and never
		// calls the inner handler. Gin would still run the route handler
		// after we return, so the chain must be stopped here.
		if !admitted {
			c.Abort()
		}
	}
}

// csrfErrorHandler handles CSRF validation failures by sending the browser
// back to the form it came from.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	referer := r.Referer()
	if referer != "" {
		separator := "?"
		if strings.Contains(referer, "?") {
			separator = "&"
		}
		http.Redirect(w, r, referer+separator+"mensaje=La+sesión+del+formulario+expiró,+intenta+de+nuevo", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html lang="es">
<head><title>Formulario expirado</title></head>
<body style="font-family: system-ui; max-width: 400px; margin: 100px auto; text-align: center;">
<h1>Formulario expirado</h1>
<p>La sesión del formulario expiró o el envío no es válido.</p>
<p><a href="javascript:history.back()">Volver e intentar de nuevo</a></p>
</body>
</html>`))
}

// GetCSRFToken retrieves the CSRF token from the Gin context.
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get("csrf_token"); exists {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
