package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/askloop/askloop-backend/internal/models"
	"github.com/askloop/askloop-backend/internal/sessions"
	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey   = "claims"
	IdentityKey = "identity"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// IdentityFrom returns the authenticated identity attached to the context.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return models.Identity{}, false
	}
	ident, ok := v.(models.Identity)
	return ident, ok
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using
// the provided verifier, rejects blacklisted tokens, and attaches both the
// raw claims and the resolved Identity to the request context.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		// Expect 'Bearer <token>'
		var token string
		if n, _ := fmt.Sscanf(auth, "Bearer %s", &token); n != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		if black, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), token); err == nil && black {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			return
		}

		verified, err := ver.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var claims map[string]interface{}
		if err := verified.Claims(&claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "failed to parse claims"})
			return
		}

		ident, ok := identityFromClaims(claims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing subject"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(IdentityKey, ident)
		c.Next()
	}
}

// identityFromClaims maps token claims to an Identity. The role claim is the
// numeric role enum; it may arrive as any JSON number type.
func identityFromClaims(claims map[string]interface{}) (models.Identity, bool) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.Identity{}, false
	}
	role := models.RoleMember
	switch v := claims["role"].(type) {
	case float64:
		role = models.Role(int(v))
	case int:
		role = models.Role(v)
	case int64:
		role = models.Role(int(v))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			role = models.Role(int(n))
		}
	}
	return models.Identity{UserID: sub, Role: role}, true
}
