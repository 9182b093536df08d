package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// unsetenv guarantees key is absent for the test while still restoring
// the original value afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func setAuthEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "client-1")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret-1")
	t.Setenv("USER_ROLES", "admin@example.com:admin,dev@example.com:user")
	for _, key := range []string{"AUTH_PORT", "FRONTEND_URL", "GOOGLE_REDIRECT_URL", "AUTH_DEBUG", "REDIS_ADDR", "LOGIN_RATE_PER_MINUTE", "LOGIN_BURST"} {
		unsetenv(t, key)
	}
}

func TestLoadAuth(t *testing.T) {
	setAuthEnv(t)

	cfg, err := LoadAuth()
	if err != nil {
		t.Fatalf("LoadAuth() error = %v", err)
	}

	if cfg.Port != "5001" {
		t.Errorf("cfg.Port = %q, want default %q", cfg.Port, "5001")
	}
	if cfg.FrontendURL != "http://localhost:3000" {
		t.Errorf("cfg.FrontendURL = %q, want default", cfg.FrontendURL)
	}
	if cfg.GoogleRedirectURL != "http://localhost:5001/auth/callback" {
		t.Errorf("cfg.GoogleRedirectURL = %q, want default", cfg.GoogleRedirectURL)
	}
	if cfg.LoginRatePerMinute != 30 || cfg.LoginBurst != 10 {
		t.Errorf("rate limits = %d/%d, want 30/10", cfg.LoginRatePerMinute, cfg.LoginBurst)
	}
	if cfg.Debug {
		t.Error("cfg.Debug = true, want false by default")
	}

	want := map[string]string{"admin@example.com": "admin", "dev@example.com": "user"}
	if len(cfg.UserRoles) != len(want) {
		t.Fatalf("cfg.UserRoles = %v, want %v", cfg.UserRoles, want)
	}
	for email, role := range want {
		if cfg.UserRoles[email] != role {
			t.Errorf("cfg.UserRoles[%q] = %q, want %q", email, cfg.UserRoles[email], role)
		}
	}
}

func TestLoadAuthMissingCredentials(t *testing.T) {
	setAuthEnv(t)
	unsetenv(t, "JWT_SECRET")
	unsetenv(t, "GOOGLE_CLIENT_ID")

	_, err := LoadAuth()
	if err == nil {
		t.Fatal("LoadAuth() without credentials succeeded, want error")
	}
	for _, name := range []string{"JWT_SECRET", "GOOGLE_CLIENT_ID"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name missing variable %s", err, name)
		}
	}
}

func TestLoadAuthOverrides(t *testing.T) {
	setAuthEnv(t)
	t.Setenv("AUTH_PORT", "8080")
	t.Setenv("AUTH_DEBUG", "true")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadAuth()
	if err != nil {
		t.Fatalf("LoadAuth() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("cfg.Port = %q, want %q", cfg.Port, "8080")
	}
	if !cfg.Debug {
		t.Error("cfg.Debug = false, want true")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("cfg.RedisAddr = %q, want %q", cfg.RedisAddr, "localhost:6379")
	}
}

func TestLoadResource(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	unsetenv(t, "RESOURCE_PORT")

	cfg, err := LoadResource()
	if err != nil {
		t.Fatalf("LoadResource() error = %v", err)
	}
	if cfg.Port != "5002" {
		t.Errorf("cfg.Port = %q, want default %q", cfg.Port, "5002")
	}
}

func TestLoadResourceMissingSecret(t *testing.T) {
	unsetenv(t, "JWT_SECRET")

	if _, err := LoadResource(); err == nil {
		t.Fatal("LoadResource() without JWT_SECRET succeeded, want error")
	}
}

func TestLoadFrontend(t *testing.T) {
	for _, key := range []string{"FRONTEND_PORT", "AUTH_SERVICE_URL", "RESOURCE_SERVICE_URL", "SESSION_TTL", "COOKIE_SECURE"} {
		unsetenv(t, key)
	}
	t.Setenv("UPSTREAM_TIMEOUT", "2s")

	cfg, err := LoadFrontend()
	if err != nil {
		t.Fatalf("LoadFrontend() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("cfg.Port = %q, want default %q", cfg.Port, "3000")
	}
	if cfg.AuthServiceURL != "http://localhost:5001" {
		t.Errorf("cfg.AuthServiceURL = %q, want default", cfg.AuthServiceURL)
	}
	if cfg.SessionTTL != 8*time.Hour {
		t.Errorf("cfg.SessionTTL = %v, want 8h", cfg.SessionTTL)
	}
	if cfg.UpstreamTimeout != 2*time.Second {
		t.Errorf("cfg.UpstreamTimeout = %v, want 2s", cfg.UpstreamTimeout)
	}
}
