package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"zapshift/internal/auth"
	"zapshift/internal/repository"
)

const principalKey = "principal"

// RequireAuth verifies the bearer token and resolves the caller's user
// record, storing an auth.Principal in the request context. Requests
// without a valid, known identity are rejected before any handler runs.
func RequireAuth(tokens *auth.TokenManager, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		email, err := tokens.Verify(token)
		if err != nil {
			abortUnauthorized(c, "invalid bearer token")
			return
		}

		user, err := userRepo.GetByEmail(c.Request.Context(), email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortUnauthorized(c, "unknown account")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth lookup failed"})
			return
		}

		c.Set(principalKey, &auth.Principal{Email: user.Email, Role: user.Role})
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !PrincipalFrom(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the verified caller identity, or nil on routes
// that did not pass through RequireAuth.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := value.(*auth.Principal)
	return principal
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
