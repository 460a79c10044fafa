package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupCSRFRouter(handlerRan *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware([]byte("32-byte-long-auth-key-for-tests!"), false))
	router.POST("/register", func(c *gin.Context) {
		*handlerRan = true
		c.String(http.StatusOK, "created")
	})
	router.GET("/register", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	return router
}

func TestCSRFMiddleware_RejectedPostDoesNotReachHandler(t *testing.T) {
	handlerRan := false
	router := setupCSRFRouter(&handlerRan)

	form := url.Values{"usuario": {"maria"}, "password": {"tresleches"}}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	// No CSRF token: the rejection response must be the whole story
	if rr.Code == http.StatusOK {
		t.Errorf("Expected rejection status, got %d", rr.Code)
	}
	if handlerRan {
		t.Error("Route handler executed despite CSRF rejection")
	}
}

func TestCSRFMiddleware_SafeMethodPasses(t *testing.T) {
	handlerRan := false
	router := setupCSRFRouter(&handlerRan)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for GET, got %d", rr.Code)
	}
	if rr.Body.String() == "" {
		t.Error("Expected a CSRF token to be available to the form page")
	}
}

func TestCSRFMiddleware_SkipsAPIClients(t *testing.T) {
	handlerRan := false
	router := setupCSRFRouter(&handlerRan)

	// API-negotiated requests authenticate per-request and bypass CSRF
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for JSON client, got %d", rr.Code)
	}
	if !handlerRan {
		t.Error("Route handler should run for API clients")
	}
}
