// Package state tracks the anti-replay state tokens issued for in-flight
// login attempts. A token is consumable at most once and only within a
// fixed window of its creation; after that the attempt is gone.
package state

import (
	"context"
	"time"
)

// TTL is how long an issued state token stays consumable.
const TTL = 10 * time.Minute

// Attempt is the record kept for one in-flight login attempt, keyed by
// its state token.
type Attempt struct {
	// Verifier is the PKCE code verifier bound to the attempt. It never
	// leaves the server; only its derived challenge does.
	Verifier  string    `json:"verifier"`
	CreatedAt time.Time `json:"created_at"`
}

// Store tracks outstanding login attempts. Implementations must
// guarantee that exactly one Consume call on a given token observes the
// attempt, even under concurrent callers.
type Store interface {
	// Issue records a new attempt and returns its opaque state token.
	Issue(ctx context.Context, verifier string) (string, error)

	// Consume removes and returns the attempt for token. It returns
	// (nil, nil) when the token is unknown, expired, or already
	// consumed; callers must treat all three identically and reject the
	// login attempt.
	Consume(ctx context.Context, token string) (*Attempt, error)

	// Pending returns the number of outstanding attempts.
	Pending(ctx context.Context) (int, error)

	// Clear drops every outstanding attempt.
	Clear(ctx context.Context) error
}
