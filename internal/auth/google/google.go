// Package google implements the identity-provider exchange against
// Google, using OIDC discovery for endpoints and signing keys and the
// OAuth 2.0 authorization-code flow with PKCE.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/angaddubey10/oauth-demo/internal/auth"
)

const issuerGoogle = "https://accounts.google.com"

// clockSkew is the allowance applied when checking the identity
// assertion's validity window, absorbing small clock drift between this
// service and the provider.
const clockSkew = 60 * time.Second

// exchangeTimeout bounds every outbound call to the provider.
const exchangeTimeout = 10 * time.Second

// Config carries the registered OAuth client. Issuer, AuthURL, TokenURL,
// and KeySet override discovery for tests; leave them zero in production
// so endpoints and signing keys come from Google's discovery document.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	Issuer   string
	AuthURL  string
	TokenURL string
	KeySet   oidc.KeySet
}

// Provider implements auth.Provider against Google.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
	client      *http.Client
}

// New builds the provider, running OIDC discovery unless cfg overrides
// the endpoints. Missing client credentials are a configuration error.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcConfig := &oidc.Config{
		ClientID: cfg.ClientID,
		Now: func() time.Time {
			return time.Now().Add(-clockSkew)
		},
	}

	var (
		endpoint oauth2.Endpoint
		verifier *oidc.IDTokenVerifier
	)
	if cfg.Issuer == "" {
		oidcProvider, err := oidc.NewProvider(ctx, issuerGoogle)
		if err != nil {
			return nil, fmt.Errorf("init google oidc provider: %w", err)
		}
		endpoint = oidcProvider.Endpoint()
		verifier = oidcProvider.Verifier(oidcConfig)
	} else {
		endpoint = oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL}
		verifier = oidc.NewVerifier(cfg.Issuer, cfg.KeySet, oidcConfig)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		verifier:    verifier,
		client:      &http.Client{Timeout: exchangeTimeout},
	}, nil
}

// Scopes returns the OAuth scopes requested from Google.
func (p *Provider) Scopes() []string {
	return p.oauthConfig.Scopes
}

// AuthCodeURL builds the authorization URL with state and PKCE
// parameters bound to the attempt.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange redeems the authorization code, verifies the returned ID
// token against Google's signing keys and our client ID, and normalizes
// the identity claims.
func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	ctx = oidc.ClientContext(ctx, p.client)

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrProviderExchange, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: google did not return id_token", auth.ErrProviderIdentity)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrProviderIdentity, err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: claims parse failed: %v", auth.ErrProviderIdentity, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: id_token missing required claims", auth.ErrProviderIdentity)
	}

	slog.Info("google oidc verified",
		slog.String("issuer", idToken.Issuer),
		slog.Bool("email_verified", claims.EmailVerified),
		slog.Int64("expiry_unix", idToken.Expiry.Unix()),
	)

	return &auth.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

var _ auth.Provider = (*Provider)(nil)
