package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/angaddubey10/oauth-demo/internal/authz"
	"github.com/angaddubey10/oauth-demo/internal/state"
)

// Reject reasons for a failed login attempt. Handlers map these to the
// wire codes carried back to the frontend; anything else collapses to
// ErrInternal before it leaves this package.
var (
	ErrMissingCode     = errors.New("authorization code missing")
	ErrStateMismatch   = errors.New("state token rejected")
	ErrExchangeFailed  = errors.New("code exchange with provider failed")
	ErrInvalidIdentity = errors.New("identity assertion invalid")
	ErrInternal        = errors.New("internal error")
)

// ReasonCode returns the wire code for a login failure, matching the
// error query parameter the frontend understands.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingCode):
		return "no_code"
	case errors.Is(err, ErrStateMismatch):
		return "state_mismatch"
	case errors.Is(err, ErrExchangeFailed):
		return "token_exchange_failed"
	case errors.Is(err, ErrInvalidIdentity):
		return "invalid_token"
	default:
		return "internal_error"
	}
}

// Exchange drives one login attempt end to end: issuing the anti-replay
// state, redeeming the provider callback, and resolving the internal
// role for the verified identity.
type Exchange struct {
	provider Provider
	states   state.Store
	roles    authz.RoleMap
}

// NewExchange wires an Exchange around a provider, a state store, and
// the configured email-to-role mapping.
func NewExchange(provider Provider, states state.Store, roles authz.RoleMap) *Exchange {
	return &Exchange{provider: provider, states: states, roles: roles}
}

// Begin records a fresh login attempt and returns the provider
// authorization URL the browser must be redirected to.
func (e *Exchange) Begin(ctx context.Context) (string, error) {
	verifier := GenerateCodeVerifier()
	stateToken, err := e.states.Issue(ctx, verifier)
	if err != nil {
		return "", fmt.Errorf("issue login state: %w", err)
	}
	return e.provider.AuthCodeURL(stateToken, ComputeS256Challenge(verifier)), nil
}

// Complete resumes a login attempt from the provider callback. The state
// token is consumed before any external call is made, so the code is
// redeemed at most once per attempt. On success the returned identity
// carries the role resolved from the configured email mapping.
func (e *Exchange) Complete(ctx context.Context, stateToken, code string) (Identity, error) {
	if code == "" {
		return Identity{}, ErrMissingCode
	}

	attempt, err := e.states.Consume(ctx, stateToken)
	if err != nil {
		slog.Error("state store unavailable", slog.String("error", err.Error()))
		return Identity{}, ErrInternal
	}
	if attempt == nil {
		// Unknown, expired, and replayed tokens all land here and are
		// indistinguishable to the caller.
		return Identity{}, ErrStateMismatch
	}

	identity, err := e.provider.Exchange(ctx, code, attempt.Verifier)
	switch {
	case errors.Is(err, ErrProviderExchange):
		slog.Warn("provider code exchange failed", slog.String("error", err.Error()))
		return Identity{}, ErrExchangeFailed
	case errors.Is(err, ErrProviderIdentity):
		slog.Warn("provider identity rejected", slog.String("error", err.Error()))
		return Identity{}, ErrInvalidIdentity
	case err != nil:
		slog.Error("login attempt failed unexpectedly", slog.String("error", err.Error()))
		return Identity{}, ErrInternal
	}

	identity.Role = e.roles.Resolve(identity.Email)
	return *identity, nil
}
