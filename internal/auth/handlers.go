package auth

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/entities"
)

// AuthController handles the login, logout and registration endpoints.
// Every endpoint answers in two shapes: JSON for API clients, rendered
// pages or redirects for browsers.
type AuthController struct {
	service   *Service
	tokens    *TokenManager
	audit     *audit.Service
	templates *template.Template
	config    config.Auth
}

// NewAuthController creates a new authentication controller. The audit
// service may be nil, in which case no login trail is written.
func NewAuthController(service *Service, tokens *TokenManager, auditService *audit.Service, templatesPath string, cfg config.Auth) *AuthController {
	// Parse templates; fall back to JSON-only responses if they are absent
	tmpl, err := template.ParseGlob(filepath.Join(templatesPath, "*.html"))
	if err != nil {
		tmpl = nil
	}

	return &AuthController{
		service:   service,
		tokens:    tokens,
		audit:     auditService,
		templates: tmpl,
		config:    cfg,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.GET("/register", ac.RegisterPage)
	router.POST("/register", ac.Register)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
}

type credentialsRequest struct {
	Usuario  string `form:"usuario" json:"usuario"`
	Password string `form:"password" json:"password"`
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	// If already holding a valid token, go straight to the dashboard
	if token := ExtractToken(c); token != "" {
		if _, err := ac.tokens.Parse(token); err == nil {
			c.Redirect(http.StatusFound, "/home")
			return
		}
	}

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Iniciar Sesión - Cake Sweet",
		"Mensaje":   c.Query("mensaje"),
		"Error":     nil,
		"CSRFToken": GetCSRFToken(c),
	})
}

// Login verifies credentials and hands out a session token: in the response
// body for API clients, as an httpOnly cookie plus redirect for browsers.
func (ac *AuthController) Login(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	if req.Usuario == "" || req.Password == "" {
		ac.loginError(c, http.StatusBadRequest, MsgMissingFields)
		return
	}

	user, err := ac.service.Authenticate(req.Usuario, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			ac.logAuth(c, 0, req.Usuario, entities.LoginActionLogin, false)
			ac.loginError(c, http.StatusUnauthorized, MsgBadCredentials)
			return
		}
		log.Printf("Login failed for %q: %v", req.Usuario, err)
		ac.loginError(c, http.StatusInternalServerError, MsgInternalError)
		return
	}

	token, err := ac.tokens.Issue(user.ID, user.Username)
	if err != nil {
		log.Printf("Failed to issue token for user %d: %v", user.ID, err)
		ac.loginError(c, http.StatusInternalServerError, MsgInternalError)
		return
	}

	ac.logAuth(c, user.ID, user.Username, entities.LoginActionLogin, true)

	if WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{
			"mensaje": MsgLoginOK,
			"token":   token,
			"usuario": user.Username,
		})
		return
	}

	SetTokenCookie(c, token, int(ac.tokens.Expiry().Seconds()), ac.config.SecureCookies)
	c.Redirect(http.StatusFound, "/home")
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server-side; the session simply ends for this client.
func (ac *AuthController) Logout(c *gin.Context) {
	if token := ExtractToken(c); token != "" {
		if claims, err := ac.tokens.Parse(token); err == nil {
			ac.logAuth(c, claims.UserID, claims.Username, entities.LoginActionLogout, true)
		}
	}

	ClearTokenCookie(c)

	if WantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"mensaje": MsgLogoutOK})
		return
	}
	c.Redirect(http.StatusFound, "/login?mensaje="+url.QueryEscape(MsgLogoutOK))
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	ac.renderTemplate(c, http.StatusOK, "register.html", gin.H{
		"Title":     "Registro - Cake Sweet",
		"Usuario":   "",
		"Error":     nil,
		"CSRFToken": GetCSRFToken(c),
	})
}

// Register creates a new account.
func (ac *AuthController) Register(c *gin.Context) {
	var req credentialsRequest
	_ = c.ShouldBind(&req)

	user, err := ac.service.Register(req.Usuario, req.Password)
	if err != nil {
		status := http.StatusBadRequest
		var mensaje string
		switch {
		case errors.Is(err, ErrMissingFields):
			mensaje = "Usuario y contraseña son necesarios"
		case errors.Is(err, ErrUsernameTooShort):
			mensaje = "El usuario debe tener al menos 3 caracteres"
		case errors.Is(err, ErrPasswordTooShort):
			mensaje = "La contraseña debe tener al menos 4 caracteres"
		case errors.Is(err, ErrUserExists):
			mensaje = "El usuario ya existe"
		default:
			log.Printf("Registration failed for %q: %v", req.Usuario, err)
			status = http.StatusInternalServerError
			mensaje = MsgInternalError
		}

		if WantsJSON(c) {
			c.JSON(status, gin.H{"error": mensaje})
			return
		}
		ac.renderTemplate(c, status, "register.html", gin.H{
			"Title":     "Registro - Cake Sweet",
			"Usuario":   req.Usuario,
			"Error":     mensaje,
			"CSRFToken": GetCSRFToken(c),
		})
		return
	}

	ac.logAuth(c, user.ID, user.Username, entities.LoginActionRegister, true)

	if WantsJSON(c) {
		c.JSON(http.StatusCreated, gin.H{"mensaje": MsgRegisterOK})
		return
	}
	c.Redirect(http.StatusFound, "/login?mensaje="+url.QueryEscape(MsgRegisteredOK))
}

// logAuth writes a login trail entry when auditing is wired up.
func (ac *AuthController) logAuth(c *gin.Context, userID uint, username string, action entities.LoginAction, success bool) {
	if ac.audit == nil {
		return
	}
	ac.audit.LogAuth(userID, username, action, ClientAddress(c), c.Request.UserAgent(), success)
}

// loginError reports a failed login in the caller's preferred format.
func (ac *AuthController) loginError(c *gin.Context, status int, mensaje string) {
	if WantsJSON(c) {
		c.JSON(status, gin.H{"mensaje": mensaje})
		return
	}
	ac.renderTemplate(c, status, "login.html", gin.H{
		"Title":     "Iniciar Sesión - Cake Sweet",
		"Mensaje":   nil,
		"Error":     mensaje,
		"CSRFToken": GetCSRFToken(c),
	})
}

// renderTemplate renders an HTML template or falls back to JSON when no
// templates are loaded.
func (ac *AuthController) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
