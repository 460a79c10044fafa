package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupFilteredRouter(allowedIPs []string) *gin.Engine {
	filter := NewIPFilter(allowedIPs)

	router := gin.New()
	router.GET("/home", filter.Handler(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestIPFilter_DisabledAllowsEveryone(t *testing.T) {
	router := setupFilteredRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.RemoteAddr = "203.0.113.50:12345"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 with empty allow-list, got %d", rr.Code)
	}
}

func TestIPFilter_AllowsListedAddress(t *testing.T) {
	router := setupFilteredRouter([]string{"192.168.1.10"})

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.RemoteAddr = "192.168.1.10:54321"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for allowed address, got %d", rr.Code)
	}
}

func TestIPFilter_DeniesUnlistedAddress(t *testing.T) {
	router := setupFilteredRouter([]string{"192.168.1.10"})

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.RemoteAddr = "203.0.113.50:12345"
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}
	// The denial names the rejected address
	if !strings.Contains(rr.Body.String(), "203.0.113.50") {
		t.Errorf("Expected denied address in response, got %s", rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Acceso denegado") {
		t.Errorf("Expected Spanish denial message, got %s", rr.Body.String())
	}
}

func TestIPFilter_DeniesWithHTMLForBrowsers(t *testing.T) {
	router := setupFilteredRouter([]string{"192.168.1.10"})

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.RemoteAddr = "203.0.113.50:12345"
	req.Header.Set("Accept", "text/html")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Type"), "text/html") {
		t.Errorf("Expected HTML response for browser, got %s", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "Acceso Denegado") {
		t.Errorf("Expected denial page, got %s", rr.Body.String())
	}
}

func TestIPFilter_UsesForwardedForHeader(t *testing.T) {
	router := setupFilteredRouter([]string{"10.0.0.5"})

	// Left-most X-Forwarded-For entry is the original client
	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.RemoteAddr = "172.17.0.1:9999"
	req.Header.Set("X-Forwarded-For", "10.0.0.5, 172.17.0.1")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 via X-Forwarded-For, got %d", rr.Code)
	}
}

func TestClientAddress(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.168.1.10:54321",
			want:       "192.168.1.10",
		},
		{
			name:       "forwarded-for single",
			remoteAddr: "172.17.0.1:9999",
			xff:        "203.0.113.50",
			want:       "203.0.113.50",
		},
		{
			name:       "forwarded-for chain uses left-most",
			remoteAddr: "172.17.0.1:9999",
			xff:        "203.0.113.50, 10.0.0.1, 172.17.0.1",
			want:       "203.0.113.50",
		},
		{
			name:       "forwarded-for with spaces",
			remoteAddr: "172.17.0.1:9999",
			xff:        "  203.0.113.50 , 10.0.0.1",
			want:       "203.0.113.50",
		},
		{
			name:       "ipv4-mapped ipv6 is normalized",
			remoteAddr: "[::ffff:192.168.1.10]:54321",
			want:       "192.168.1.10",
		},
		{
			name:       "ipv4-mapped ipv6 in forwarded-for",
			remoteAddr: "172.17.0.1:9999",
			xff:        "::ffff:10.0.0.5",
			want:       "10.0.0.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				c.Request.Header.Set("X-Forwarded-For", tt.xff)
			}

			if got := ClientAddress(c); got != tt.want {
				t.Errorf("ClientAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
