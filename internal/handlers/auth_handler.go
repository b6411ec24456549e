package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"block-builder-backend/internal/middleware"
	"block-builder-backend/internal/models"
	"block-builder-backend/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookieName  string
	cookieTTL   int
}

func NewAuthHandler(authService *service.AuthService, cookieName string, cookieTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookieName:  cookieName,
		cookieTTL:   cookieTTLSeconds,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, value, maxAge, "/", "", secure, true)
}

// Login signs in an identity asserted by the caller. It is only routed in
// development, where no upstream login provider is available.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.UserIdentity
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.authService.SignIn(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.cookieTTL)
	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user})
}

// Me returns the current user or null for anonymous callers.
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user, err := h.authService.GetUserByID(actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"user": nil})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
