package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/NehanAhmed/Forge/internal/modules/repo"
	"github.com/NehanAhmed/Forge/internal/modules/serializer"
)

const userIDKey = "user_id"

// SessionAuth resolves an optional bearer session token to a user id.
// Requests without a token pass through as anonymous; a presented token that
// does not resolve is rejected rather than silently downgraded.
func SessionAuth(sessions repo.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		session, err := sessions.GetByToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// RequireAuth aborts anonymous requests. It must run after SessionAuth.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(userIDKey); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id, or nil for anonymous requests.
func UserID(c *gin.Context) *string {
	v, ok := c.Get(userIDKey)
	if !ok {
		return nil
	}
	id, ok := v.(string)
	if !ok {
		return nil
	}
	return &id
}
