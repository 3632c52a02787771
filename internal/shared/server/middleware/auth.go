package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder-api/internal/shared/auth"
	"resume-builder-api/internal/shared/server/respond"
)

const (
	userIDKey   = "userId"
	identityKey = "identity"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Auth validates bearer JWTs and stores the identity in context.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Fail(c, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			respond.Fail(c, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}

		identity, err := tokens.Verify(token)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		c.Set(userIDKey, identity.UserID)
		c.Set(identityKey, identity)
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware, 0 when absent.
func UserIDFromContext(c *gin.Context) int64 {
	if c == nil {
		return 0
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(int64); ok {
		return id
	}
	return 0
}

// IdentityFromContext fetches the verified token identity.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	if c == nil {
		return auth.Identity{}, false
	}
	val, _ := c.Get(identityKey)
	id, ok := val.(auth.Identity)
	return id, ok
}
