// Package session holds the gateway's server-side sessions: an opaque
// random ID in an httponly cookie referencing the session token obtained
// from the authentication service. The browser never sees the token.
package session

import (
	"context"
	"time"

	"github.com/angaddubey10/oauth-demo/internal/auth"
)

// Session is one authenticated browser session. It carries the bearer
// token and a cached copy of its claims; the gateway never mints tokens
// itself.
type Session struct {
	ID        string        `json:"id"`
	Token     string        `json:"token"`
	User      auth.Identity `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"` // absolute expiry
}

// Store defines how sessions are stored and retrieved. Implementations
// treat sessions as opaque, expire them at ExpiresAt, and return
// (nil, nil) from Get for missing or expired sessions.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}
