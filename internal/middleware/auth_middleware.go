package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskflow/internal/auth"
	"taskflow/internal/model"
	"taskflow/internal/service"
)

// Context keys set by the auth middleware
const (
	UserIDKey    = "userID"
	PrincipalKey = "principal"
)

// UserLoader resolves a token's user id to a stored user.
type UserLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// JWTAuthMiddleware validates the bearer token, loads the user and exposes
// the acting principal to handlers. Unknown or deactivated users are
// rejected the same way as bad tokens.
func JWTAuthMiddleware(jwtSecret string, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "No token provided"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userIDStr, err := auth.ParseToken(tokenStr, jwtSecret)
		if err != nil {
			message := "Invalid token"
			if err == auth.ErrExpiredToken {
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to resolve user"})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found or inactive"})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(PrincipalKey, service.Principal{
			UserID:   user.ID,
			Role:     user.Role,
			IsActive: user.IsActive,
		})
		c.Next()
	}
}

// PrincipalFrom extracts the principal placed by JWTAuthMiddleware.
func PrincipalFrom(c *gin.Context) (service.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return service.Principal{}, false
	}
	p, ok := v.(service.Principal)
	return p, ok
}
