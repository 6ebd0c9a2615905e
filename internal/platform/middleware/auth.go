// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staybook/service-booking/internal/platform/auth"
	"github.com/staybook/service-booking/internal/platform/response"
)

const identityKey = "identity"

// AuthMiddleware requires a valid bearer token and stores the caller's identity.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		id, err := jwtManager.Verify(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalAuthMiddleware stores an identity when a valid token is present and lets
// anonymous requests through.
func OptionalAuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if id, err := jwtManager.Verify(token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller has one of the roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		if !allowed[id.Role] {
			response.Forbidden(c, "forbidden")
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// GetIdentity returns the caller's identity if one was authenticated.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok && id.IsAuthenticated()
}

// GetUserID returns the authenticated user ID.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := GetIdentity(c)
	return id.UserID, ok
}

// GetUserRole returns the authenticated user's role.
func GetUserRole(c *gin.Context) (auth.Role, bool) {
	id, ok := GetIdentity(c)
	return id.Role, ok
}
