// Package authz holds the role model shared by the services and the
// access decision applied to protected operations. Roles are assigned at
// login time from a configured email mapping and travel inside the
// session token; nothing here performs authentication.
package authz

import "strings"

// Role is the coarse authorization label embedded in session tokens.
type Role string

const (
	// RoleUser is the lowest-privilege role and the default for any
	// email missing from the configured mapping.
	RoleUser Role = "user"
	// RoleAdmin grants access to admin-only resources.
	RoleAdmin Role = "admin"
)

// Requirement is the access level a protected operation demands.
type Requirement int

const (
	// AnyAuthenticated admits every verified identity.
	AnyAuthenticated Requirement = iota
	// AdminOnly admits only identities carrying RoleAdmin.
	AdminOnly
)

// Authorize reports whether an identity with the given role may perform
// an operation with the given requirement. Only RoleAdmin satisfies
// AdminOnly, so misconfigured or unknown role values degrade to
// user-level access instead of gaining privileges.
func Authorize(role Role, req Requirement) bool {
	switch req {
	case AnyAuthenticated:
		return true
	case AdminOnly:
		return role == RoleAdmin
	default:
		return false
	}
}

// RoleMap resolves emails to their configured role. Lookups are
// case-insensitive.
type RoleMap map[string]Role

// NewRoleMap builds a RoleMap from a raw email-to-role mapping,
// normalizing emails to lower case.
func NewRoleMap(raw map[string]string) RoleMap {
	m := make(RoleMap, len(raw))
	for email, role := range raw {
		m[strings.ToLower(strings.TrimSpace(email))] = Role(strings.TrimSpace(role))
	}
	return m
}

// Resolve returns the role configured for email, or RoleUser when the
// email has no entry.
func (m RoleMap) Resolve(email string) Role {
	if role, ok := m[strings.ToLower(email)]; ok {
		return role
	}
	return RoleUser
}
