package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"block-builder-backend/internal/authorization"
	"block-builder-backend/internal/service"
	"block-builder-backend/pkg/logger"
)

const (
	ContextUserIDKey = "user_id"
	ContextOpenIDKey = "open_id"
	ContextRoleKey   = "role"
)

// TokenValidator verifies session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*service.SessionClaims, error)
}

// AuthMiddleware rejects requests without a valid bearer token or session cookie.
func AuthMiddleware(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c, cookieName)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization credentials required"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller identity when a valid token is
// present and lets anonymous requests through otherwise.
func OptionalAuthMiddleware(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := extractToken(c, cookieName); ok {
			if claims, err := validator.ValidateToken(tokenString); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) (string, bool) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token, true
			}
		}
	}

	if cookieName != "" {
		if cookieToken, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(cookieToken) != "" {
			return strings.TrimSpace(cookieToken), true
		}
	}
	return "", false
}

func setIdentity(c *gin.Context, claims *service.SessionClaims) {
	c.Set(ContextUserIDKey, claims.UserID)
	c.Set(ContextOpenIDKey, claims.OpenID)
	c.Set(ContextRoleKey, claims.Role)

	ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{"user_id": claims.UserID})
	c.Request = c.Request.WithContext(ctx)
}

// ActorFromContext returns the authenticated caller set by the auth middlewares.
func ActorFromContext(c *gin.Context) (service.Actor, bool) {
	userID := c.GetUint(ContextUserIDKey)
	if userID == 0 {
		return service.Actor{}, false
	}

	value, _ := c.Get(ContextRoleKey)
	role, ok := authorization.ParseUserRole(value)
	if !ok {
		role = authorization.RoleUser
	}
	return service.Actor{UserID: userID, Role: role}, true
}
