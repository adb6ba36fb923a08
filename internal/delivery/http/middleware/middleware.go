package middleware

import (
	"context"
	"net/http"
	"strings"

	"barter-market/internal/config"
	entity "barter-market/internal/domain"
	"barter-market/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserLookup resolves the token subject; nil, nil means no such user.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// AuthRequired accepts "Authorization: Bearer <jwt>" for a user that still
// exists and puts user_id (uuid.UUID) and username into the context.
func AuthRequired(jwtCfg config.JWTConfig, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		scheme, token, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		claims, err := utils.ValidateToken(jwtCfg, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Next()
	}
}
