package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/angaddubey10/oauth-demo/internal/auth"
	"github.com/angaddubey10/oauth-demo/internal/authz"
)

// identityKey is the gin context key the verified identity is stored
// under. Only RequireAuth writes it, so a handler that finds an identity
// knows the token verified.
const identityKey = "verified_identity"

// Verifier checks a serialized session token and returns its claims.
type Verifier interface {
	Verify(raw string) (auth.Identity, error)
}

// Auth guards routes with bearer session tokens.
type Auth struct {
	verifier Verifier
}

// NewAuth returns a guard backed by verifier.
func NewAuth(verifier Verifier) *Auth {
	return &Auth{verifier: verifier}
}

// RequireAuth rejects requests without a valid bearer token and attaches
// the verified identity to the request context. It aborts before any
// business logic runs; a rejected request produces no handler output.
func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}

		identity, err := a.verifier.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose role does not
// satisfy the admin requirement. Install it after RequireAuth.
func (a *Auth) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}
		if !authz.Authorize(identity.Role, authz.AdminOnly) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the identity attached by RequireAuth.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
