// Package token issues and verifies the signed session tokens that carry
// a verified identity between the services. Both the authentication and
// resource services build a Codec from the same shared secret.
package token

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angaddubey10/oauth-demo/internal/auth"
	"github.com/angaddubey10/oauth-demo/internal/authz"
)

// DefaultTTL is the validity window of an issued session token.
const DefaultTTL = 8 * time.Hour

// ErrInvalidToken is the single failure every rejected token collapses
// to. Callers cannot tell a forged token from an expired one; the
// distinction is logged server-side only.
var ErrInvalidToken = errors.New("token invalid or expired")

// Claims is the signed claim set embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	Role    authz.Role `json:"role"`
	Picture string     `json:"picture"`
}

// Config configures a Codec. Secret is required; zero values elsewhere
// take defaults.
type Config struct {
	Secret string        // symmetric signing secret
	TTL    time.Duration // token lifetime, DefaultTTL when zero
	Now    func() time.Time
}

// Codec signs and verifies session tokens with a symmetric secret. It is
// immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec validates cfg and returns a ready codec. A missing secret is
// a configuration error; services refuse to start rather than sign with
// an empty key.
func NewCodec(cfg Config) (*Codec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token signing secret is required")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Codec{secret: []byte(cfg.Secret), ttl: cfg.TTL, now: cfg.Now}, nil
}

// Issue mints a signed token for id with a fresh validity window.
func (c *Codec) Issue(id auth.Identity) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Email:   id.Email,
		Name:    id.Name,
		Role:    id.Role,
		Picture: id.Picture,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and validity window of raw and returns the
// embedded identity. Every failure mode returns ErrInvalidToken.
func (c *Codec) Verify(raw string) (auth.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		slog.Debug("session token rejected", slog.String("reason", rejectReason(err)))
		return auth.Identity{}, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		slog.Debug("session token rejected", slog.String("reason", "missing claims"))
		return auth.Identity{}, ErrInvalidToken
	}

	return auth.Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Role:    claims.Role,
	}, nil
}

// Refresh verifies raw and reissues its claims with a fresh validity
// window. It extends a live session; a token that no longer verifies
// cannot be refreshed.
func (c *Codec) Refresh(raw string) (string, error) {
	id, err := c.Verify(raw)
	if err != nil {
		return "", err
	}
	return c.Issue(id)
}

// rejectReason names the verification failure for server-side logs.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
