package auth

import "github.com/angaddubey10/oauth-demo/internal/authz"

// Identity is the normalized, verified identity produced by a completed
// login. Providers fill the profile fields; the exchange resolves Role
// before the identity leaves this package. It contains facts only, no
// decisions.
type Identity struct {
	Subject string     `json:"sub"` // provider-scoped stable user identifier
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Picture string     `json:"picture"`
	Role    authz.Role `json:"role"`
}
