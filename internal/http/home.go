package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cakesweet/storefront/internal/auth"
)

// HomeController serves the protected dashboard.
type HomeController struct {
	service *auth.Service
	// templatesLoaded mirrors the router's template state; without it
	// c.HTML would panic when no templates are on disk
	templatesLoaded bool
}

// NewHomeController creates a new dashboard controller.
func NewHomeController(service *auth.Service, templatesLoaded bool) *HomeController {
	return &HomeController{service: service, templatesLoaded: templatesLoaded}
}

// Dashboard shows the signed-in user's landing page. The user row is
// re-read so a deleted account cannot keep using a still-valid token.
func (hc *HomeController) Dashboard(c *gin.Context) {
	user, err := hc.service.GetUserByID(GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, auth.MsgUserNotFound)
			return
		}
		respondInternalError(c, err, "load dashboard user")
		return
	}

	if auth.WantsJSON(c) || !hc.templatesLoaded {
		c.JSON(http.StatusOK, gin.H{
			"mensaje": "Bienvenido al panel principal",
			"usuario": gin.H{"id": user.ID, "usuario": user.Username},
		})
		return
	}

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":   "Dashboard - Cake Sweet",
		"Usuario": user.Username,
	})
}
