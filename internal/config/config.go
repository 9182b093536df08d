// Package config loads per-service configuration from the environment.
// Missing credentials are startup failures: a service refuses to run
// rather than fall back to an empty secret.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Auth configures the authentication service.
type Auth struct {
	Port        string `env:"AUTH_PORT" envDefault:"5001"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	JWTSecret string `env:"JWT_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL" envDefault:"http://localhost:5001/auth/callback"`

	// UserRoles maps emails to roles, for example
	// USER_ROLES=admin@example.com:admin,dev@example.com:user
	UserRoles map[string]string `env:"USER_ROLES"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Debug exposes the configuration and state introspection routes.
	Debug bool `env:"AUTH_DEBUG"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"30"`
	LoginBurst         int `env:"LOGIN_BURST" envDefault:"10"`
}

// LoadAuth parses and validates the authentication service environment.
func LoadAuth() (Auth, error) {
	var cfg Auth
	if err := env.Parse(&cfg); err != nil {
		return Auth{}, fmt.Errorf("parse env: %w", err)
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.GoogleClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if cfg.GoogleClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if len(missing) > 0 {
		return Auth{}, fmt.Errorf("required environment variables are not set: %v", missing)
	}
	return cfg, nil
}

// Resource configures the resource service.
type Resource struct {
	Port        string `env:"RESOURCE_PORT" envDefault:"5002"`
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`

	JWTSecret string `env:"JWT_SECRET"`
}

// LoadResource parses and validates the resource service environment.
func LoadResource() (Resource, error) {
	var cfg Resource
	if err := env.Parse(&cfg); err != nil {
		return Resource{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Resource{}, fmt.Errorf("required environment variables are not set: [JWT_SECRET]")
	}
	return cfg, nil
}

// Frontend configures the gateway.
type Frontend struct {
	Port string `env:"FRONTEND_PORT" envDefault:"3000"`

	AuthServiceURL     string `env:"AUTH_SERVICE_URL" envDefault:"http://localhost:5001"`
	ResourceServiceURL string `env:"RESOURCE_SERVICE_URL" envDefault:"http://localhost:5002"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"8h"`
	CookieSecure    bool          `env:"COOKIE_SECURE"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

// LoadFrontend parses the gateway environment.
func LoadFrontend() (Frontend, error) {
	var cfg Frontend
	if err := env.Parse(&cfg); err != nil {
		return Frontend{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
