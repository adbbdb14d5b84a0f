package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"marketing-asset-backend/internal/shared"
	"marketing-asset-backend/pkg/jwt"
)

const (
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"

	principalKey = "principal"
)

// Identity resolves the authenticated principal for the request.
// Authentication itself happens upstream; this middleware only consumes
// what the gateway forwards, either as a JWT bearer token or as trusted
// identity headers. The principal is stored on the context and read back
// with GetPrincipal.
func Identity(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.JSON(401, gin.H{"error": "invalid authorization header format"})
				c.Abort()
				return
			}

			claims, err := jwtManager.ParseToken(parts[1])
			if err != nil {
				c.JSON(401, gin.H{"error": "invalid token"})
				c.Abort()
				return
			}

			c.Set(principalKey, shared.Principal{UserID: claims.UserID, Role: claims.Role})
			c.Next()
			return
		}

		userIDStr := c.GetHeader(UserIDHeader)
		role := c.GetHeader(UserRoleHeader)
		if userIDStr == "" || role == "" {
			// Anonymous request; write endpoints enforce via RequirePrincipal.
			c.Next()
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			c.JSON(401, gin.H{"error": "invalid user id header"})
			c.Abort()
			return
		}

		c.Set(principalKey, shared.Principal{UserID: userID, Role: role})
		c.Next()
	}
}

// RequirePrincipal rejects requests that carry no resolved identity.
func RequirePrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(principalKey); !ok {
			c.JSON(401, gin.H{"error": "missing caller identity"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetPrincipal reads the principal resolved by Identity.
func GetPrincipal(c *gin.Context) (shared.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return shared.Principal{}, false
	}
	p, ok := v.(shared.Principal)
	return p, ok
}
