package http

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/auth"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/database"
)

// RouterConfig carries the dependencies for route setup.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	TokenManager   *auth.TokenManager
	AuthMiddleware *auth.Middleware
	IPFilter       *auth.IPFilter
	AuditService   *audit.Service
	AuthConfig     config.Auth
	TemplatesPath  string
	StaticPath     string
	Version        string
	CSRFSecret     []byte
}

// NewRouter creates and configures the HTTP router with all endpoints.
//
// Protected groups are gated by the auth middleware first and the IP
// allow-list second, so an unauthenticated request never reaches the IP
// check. This is the one canonical ordering; do not mount the filter ahead
// of the gate.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF protection for browser form posts
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies))
	}

	templatesLoaded := false
	if cfg.TemplatesPath != "" {
		pattern := filepath.Join(cfg.TemplatesPath, "*.html")
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			router.LoadHTMLGlob(pattern)
			templatesLoaded = true
		}
	}

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Root: straight to the dashboard when the client already holds a
	// valid token, otherwise to the login page.
	router.GET("/", func(c *gin.Context) {
		if token := auth.ExtractToken(c); token != "" {
			if _, err := cfg.TokenManager.Parse(token); err == nil {
				c.Redirect(http.StatusFound, "/home")
				return
			}
		}
		c.Redirect(http.StatusFound, "/login")
	})

	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)

	authController := auth.NewAuthController(cfg.AuthService, cfg.TokenManager, cfg.AuditService, cfg.TemplatesPath, cfg.AuthConfig)
	authController.RegisterRoutes(router)

	// Protected routes: auth gate, then IP allow-list
	homeController := NewHomeController(cfg.AuthService, templatesLoaded)
	protected := router.Group("/", cfg.AuthMiddleware.RequireAuth(), cfg.IPFilter.Handler())
	protected.GET("/home", homeController.Dashboard)

	router.NoRoute(func(c *gin.Context) {
		const mensaje = "Ruta no encontrada"
		if auth.WantsJSON(c) {
			c.JSON(http.StatusNotFound, MessageResponse{Mensaje: mensaje})
			return
		}
		if templatesLoaded {
			c.HTML(http.StatusNotFound, "error.html", gin.H{
				"Title":   "Error 404",
				"Mensaje": mensaje,
			})
			return
		}
		c.String(http.StatusNotFound, mensaje)
	})

	return router
}
