package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/summaryhub/summaryhub/internal/azure"
	"github.com/summaryhub/summaryhub/internal/models"
	"github.com/summaryhub/summaryhub/internal/users"
)

const userContextKey = "currentUser"

// Authenticator is the minimal interface the middleware depends on;
// satisfied by *users.Service.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*models.User, error)
}

// BearerToken extracts the token from an 'Authorization: Bearer <token>' header.
func BearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		return "", false
	}
	var token string
	if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
		return "", false
	}
	return token, true
}

// AuthErrorStatus maps resolution failures onto HTTP responses. Shared by the
// middleware and the handlers that call the users service directly.
func AuthErrorStatus(err error) (int, gin.H) {
	switch {
	case errors.Is(err, users.ErrNotRegistered):
		return http.StatusForbidden, gin.H{"error": "User not registered. Please register first at /users/register"}
	case errors.Is(err, users.ErrAlreadyRegistered):
		return http.StatusConflict, gin.H{"error": "User already registered"}
	case errors.Is(err, azure.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, gin.H{"error": "identity provider unavailable"}
	case errors.Is(err, azure.ErrMisconfiguredTenant):
		return http.StatusInternalServerError, gin.H{"error": "authentication not configured"}
	case errors.Is(err, azure.ErrInvalidToken), errors.Is(err, users.ErrIncompleteClaims):
		return http.StatusUnauthorized, gin.H{"error": "invalid token"}
	}
	return http.StatusInternalServerError, gin.H{"error": "authentication failed"}
}

// RequireUser returns a Gin middleware that resolves the Bearer token to a
// registered user and stores it in the request context.
func RequireUser(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		u, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, body := AuthErrorStatus(err)
			c.AbortWithStatusJSON(status, body)
			return
		}

		c.Set(userContextKey, u)
		c.Next()
	}
}

// RequireRoles returns a middleware allowing only the given roles through.
// Must run after RequireUser.
func RequireRoles(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, r := range allowed {
			if u.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	}
}

// UserFromContext returns the authenticated user stored by RequireUser.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}

// SetUser stores a user in the request context; exported for handler tests.
func SetUser(c *gin.Context, u *models.User) {
	c.Set(userContextKey, u)
}
