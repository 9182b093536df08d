package auth

import (
	"context"
	"errors"
)

// Provider failure classes. Implementations wrap these so the exchange
// can map provider failures to caller-visible reject reasons without
// leaking provider detail to the browser.
var (
	// ErrProviderExchange marks transport failures and non-success
	// responses from the provider's token endpoint.
	ErrProviderExchange = errors.New("provider code exchange failed")

	// ErrProviderIdentity marks a missing, unverifiable, or incomplete
	// identity assertion.
	ErrProviderIdentity = errors.New("provider identity verification failed")
)

// Provider drives the authorization-code exchange against one external
// identity provider. Implementations return identity facts only; they
// never resolve roles or mint session tokens.
type Provider interface {
	// AuthCodeURL returns the provider authorization URL binding the
	// given state token and PKCE challenge to the login attempt.
	AuthCodeURL(state, codeChallenge string) string

	// Exchange redeems an authorization code for a verified identity.
	// Codes are single-use at the provider; replaying one fails there
	// and surfaces as ErrProviderExchange.
	Exchange(ctx context.Context, code, codeVerifier string) (*Identity, error)
}
