package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cakesweet/storefront/internal/config"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()

	service, _ := setupService(t)
	cfg := config.Auth{JWTSecret: "test-secret", BcryptCost: 4}
	tokens := NewTokenManager(cfg)

	// No templates on disk: browser paths redirect, everything else is JSON
	controller := NewAuthController(service, tokens, nil, "./nonexistent", cfg)

	router := gin.New()
	controller.RegisterRoutes(router)
	return router, service
}

func postJSON(router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRegister_JSON(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := postJSON(router, "/register", gin.H{"usuario": "maria", "password": "tresleches"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgRegisterOK)
}

func TestRegister_JSON_Validation(t *testing.T) {
	router, _ := setupAuthRouter(t)

	tests := []struct {
		name       string
		payload    gin.H
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing fields",
			payload:    gin.H{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Usuario y contraseña son necesarios",
		},
		{
			name:       "username too short",
			payload:    gin.H{"usuario": "ab", "password": "tresleches"},
			wantStatus: http.StatusBadRequest,
			wantError:  "El usuario debe tener al menos 3 caracteres",
		},
		{
			name:       "password too short",
			payload:    gin.H{"usuario": "maria", "password": "abc"},
			wantStatus: http.StatusBadRequest,
			wantError:  "La contraseña debe tener al menos 4 caracteres",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(router, "/register", tt.payload)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantError)
		})
	}
}

func TestRegister_JSON_Duplicate(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := postJSON(router, "/register", gin.H{"usuario": "maria", "password": "tresleches"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(router, "/register", gin.H{"usuario": "maria", "password": "otraclave"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "El usuario ya existe")
}

func TestLogin_JSON(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := postJSON(router, "/register", gin.H{"usuario": "maria", "password": "tresleches"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(router, "/login", gin.H{"usuario": "maria", "password": "tresleches"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Mensaje string `json:"mensaje"`
		Token   string `json:"token"`
		Usuario string `json:"usuario"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, MsgLoginOK, resp.Mensaje)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maria", resp.Usuario)
}

func TestLogin_JSON_BadCredentials(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := postJSON(router, "/register", gin.H{"usuario": "maria", "password": "tresleches"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = postJSON(router, "/login", gin.H{"usuario": "maria", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgBadCredentials)

	// Unknown user answers identically
	rr = postJSON(router, "/login", gin.H{"usuario": "nobody", "password": "whatever"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgBadCredentials)
}

func TestLogin_JSON_MissingFields(t *testing.T) {
	router, _ := setupAuthRouter(t)

	rr := postJSON(router, "/login", gin.H{"usuario": "maria"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgMissingFields)
}

func TestLogin_Form_SetsCookieAndRedirects(t *testing.T) {
	router, service := setupAuthRouter(t)

	_, err := service.Register("maria", "tresleches")
	require.NoError(t, err)

	form := url.Values{"usuario": {"maria"}, "password": {"tresleches"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/home", rr.Header().Get("Location"))

	cookies := rr.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == CookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login should set the session cookie")
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)
}

func TestLogout_JSON(t *testing.T) {
	router, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), MsgLogoutOK)
}

func TestLogout_Browser_ClearsCookie(t *testing.T) {
	router, _ := setupAuthRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Location"), "/login?mensaje=")

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	for _, cookie := range cookies {
		if cookie.Name == CookieName {
			assert.Empty(t, cookie.Value)
			assert.Negative(t, cookie.MaxAge)
		}
	}
}

func TestLoginPage_RedirectsWhenAlreadyAuthenticated(t *testing.T) {
	router, service := setupAuthRouter(t)

	_, err := service.Register("maria", "tresleches")
	require.NoError(t, err)

	rr := postJSON(router, "/login", gin.H{"usuario": "maria", "password": "tresleches"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: resp.Token})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/home", rr.Header().Get("Location"))
}
