// Package resource serves the role-protected resource API. Every route
// sits behind the bearer-token guard; the admin routes additionally
// require the admin role. Data is mock fixtures standing in for a real
// backend.
package resource

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angaddubey10/oauth-demo/internal/authz"
	"github.com/angaddubey10/oauth-demo/internal/middleware"
)

// Handler serves the protected resource routes. Authorization decisions
// happen in the route guards before any payload is assembled.
type Handler struct {
	now func() time.Time
}

// New returns a Handler on the real clock.
func New() *Handler {
	return &Handler{now: time.Now}
}

// RegisterRoutes installs the protected routes behind guard.
func (h *Handler) RegisterRoutes(r *gin.Engine, guard *middleware.Auth) {
	protected := r.Group("", guard.RequireAuth())
	protected.GET("/resources/user", h.UserResources)
	protected.GET("/resources/all", h.AllResources)
	protected.GET("/user/profile", h.Profile)

	admin := protected.Group("", guard.RequireAdmin())
	admin.GET("/resources/admin", h.AdminResources)
	admin.GET("/admin/stats", h.SystemStats)
	admin.GET("/admin/users", h.ManagedUsers)
}

// envelope is the uniform response shape of the resource API.
func (h *Handler) envelope(data any, message string) gin.H {
	return gin.H{
		"status":    "success",
		"message":   message,
		"data":      data,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	}
}

// stamp copies docs with the caller's access level and email applied.
func stamp(docs []Document, level, email string) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		d.AccessLevel = level
		d.AccessibleBy = email
		out[i] = d
	}
	return out
}

// UserResources returns the documents every authenticated user may read.
func (h *Handler) UserResources(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	docs := stamp(userDocuments, "user", identity.Email)
	c.JSON(http.StatusOK, h.envelope(docs, fmt.Sprintf("Retrieved %d user resources", len(docs))))
}

// AdminResources returns the admin-only documents.
func (h *Handler) AdminResources(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	docs := stamp(adminResources, "admin", identity.Email)
	c.JSON(http.StatusOK, h.envelope(docs, fmt.Sprintf("Retrieved %d admin resources", len(docs))))
}

// AllResources returns everything the caller's role grants: user
// documents for everyone, plus the admin set for admins.
func (h *Handler) AllResources(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)

	docs := stamp(userDocuments, "user", identity.Email)
	if authz.Authorize(identity.Role, authz.AdminOnly) {
		docs = append(docs, stamp(adminResources, "admin", identity.Email)...)
	}
	c.JSON(http.StatusOK, h.envelope(docs, fmt.Sprintf("Retrieved %d accessible resources", len(docs))))
}

// Profile returns the caller's identity together with derived access
// statistics and permission flags.
func (h *Handler) Profile(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	isAdmin := authz.Authorize(identity.Role, authz.AdminOnly)

	adminCount := 0
	if isAdmin {
		adminCount = len(adminResources)
	}

	profile := gin.H{
		"user_info": identity,
		"stats": gin.H{
			"total_accessible_resources": len(userDocuments) + adminCount,
			"user_resources":             len(userDocuments),
			"admin_resources":            adminCount,
			"role":                       identity.Role,
			"last_accessed":              h.now().UTC().Format(time.RFC3339),
		},
		"permissions": gin.H{
			"can_access_user_resources":  true,
			"can_access_admin_resources": isAdmin,
			"can_manage_users":           isAdmin,
		},
	}
	c.JSON(http.StatusOK, h.envelope(profile, "Profile retrieved successfully"))
}

// SystemStats returns mock operational statistics.
func (h *Handler) SystemStats(c *gin.Context) {
	stats := gin.H{
		"total_resources":       len(userDocuments) + len(adminResources),
		"user_resources_count":  len(userDocuments),
		"admin_resources_count": len(adminResources),
		"system_uptime":         "5 days, 12 hours",
		"active_users":          15,
		"total_api_calls":       1247,
		"last_updated":          h.now().UTC().Format(time.RFC3339),
	}
	c.JSON(http.StatusOK, h.envelope(stats, "System statistics retrieved"))
}

// ManagedUsers returns the mock user administration view.
func (h *Handler) ManagedUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.envelope(managedUsers, "User list retrieved successfully"))
}
