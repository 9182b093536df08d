package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/angaddubey10/oauth-demo/internal/auth"
)

// ErrUpstream marks transport-level failures talking to a backing
// service, as opposed to a well-formed rejection it returned.
var ErrUpstream = errors.New("upstream unavailable")

const defaultTimeout = 10 * time.Second

// AuthClient calls the auth service. The gateway never verifies or
// mints tokens locally; every check goes through here.
type AuthClient struct {
	baseURL string
	client  *http.Client
}

func NewAuthClient(baseURL string, client *http.Client) *AuthClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &AuthClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// LoginURL begins a login attempt and returns the provider URL the
// browser should be sent to.
func (a *AuthClient) LoginURL(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/login", nil)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth service login returned status %d", resp.StatusCode)
	}

	var payload struct {
		AuthURL string `json:"auth_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if payload.AuthURL == "" {
		return "", errors.New("auth service returned no auth_url")
	}
	return payload.AuthURL, nil
}

// Verify checks a token with the auth service. A definitive rejection
// returns (nil, nil); errors are reserved for transport or protocol
// failures where validity is unknown.
func (a *AuthClient) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	resp, err := a.postToken(ctx, "/auth/verify", token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, fmt.Errorf("auth service verify returned status %d", resp.StatusCode)
	}

	var payload struct {
		Valid bool          `json:"valid"`
		User  auth.Identity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	if !payload.Valid {
		return nil, nil
	}
	return &payload.User, nil
}

// Refresh swaps a valid token for one with a fresh validity window.
// A rejected token returns ("", nil).
func (a *AuthClient) Refresh(ctx context.Context, token string) (string, error) {
	resp, err := a.postToken(ctx, "/auth/refresh", token)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnauthorized:
		return "", nil
	default:
		return "", fmt.Errorf("auth service refresh returned status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode refresh response: %w", err)
	}
	if payload.Token == "" {
		return "", errors.New("auth service returned no token")
	}
	return payload.Token, nil
}

func (a *AuthClient) postToken(ctx context.Context, path, token string) (*http.Response, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp, nil
}

// ResourceClient relays requests to the resource service.
type ResourceClient struct {
	baseURL string
	client  *http.Client
}

func NewResourceClient(baseURL string, client *http.Client) *ResourceClient {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &ResourceClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// Get fetches path with the bearer token and returns the upstream
// status and body unmodified.
func (r *ResourceClient) Get(ctx context.Context, path, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return resp.StatusCode, body, nil
}
