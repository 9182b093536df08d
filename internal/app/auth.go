package app

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angaddubey10/oauth-demo/internal/auth"
	"github.com/angaddubey10/oauth-demo/internal/auth/google"
	"github.com/angaddubey10/oauth-demo/internal/auth/handler"
	"github.com/angaddubey10/oauth-demo/internal/authz"
	"github.com/angaddubey10/oauth-demo/internal/config"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/middleware"
	"github.com/angaddubey10/oauth-demo/internal/redis"
	"github.com/angaddubey10/oauth-demo/internal/state"
	"github.com/angaddubey10/oauth-demo/internal/token"
)

// NewAuthService wires the authentication service: Google OIDC
// exchange, login state store, token codec, and the /auth routes.
func NewAuthService(ctx context.Context, cfg config.Auth) (*App, error) {
	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	if err != nil {
		return nil, err
	}

	codec, err := token.NewCodec(token.Config{Secret: cfg.JWTSecret})
	if err != nil {
		return nil, err
	}

	// Login state lives in-process unless Redis is configured, in
	// which case multiple instances share one state space.
	var redisClient *redis.Client
	var states state.Store = state.NewMemoryStore()
	if cfg.RedisAddr != "" {
		redisClient, err = redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		states = state.NewRedisStore(redisClient.Client)
		slog.Info("login state store backed by redis", "addr", cfg.RedisAddr)
	}

	exchange := auth.NewExchange(googleProvider, states, authz.NewRoleMap(cfg.UserRoles))

	registry := prometheus.NewRegistry()
	authMetrics := metrics.NewAuth(registry)

	limiterCfg := middleware.DefaultRateLimiterConfig()
	if cfg.LoginRatePerMinute > 0 {
		limiterCfg.PerMinute = cfg.LoginRatePerMinute
	}
	if cfg.LoginBurst > 0 {
		limiterCfg.Burst = cfg.LoginBurst
	}
	limiter := middleware.NewRateLimiter(limiterCfg)

	authHandler := handler.New(handler.Config{
		Exchange:    exchange,
		Codec:       codec,
		States:      states,
		Metrics:     authMetrics,
		FrontendURL: cfg.FrontendURL,
		Debug:       cfg.Debug,
		OAuth: handler.OAuthInfo{
			ClientID:    cfg.GoogleClientID,
			RedirectURL: cfg.GoogleRedirectURL,
			Scope:       strings.Join(googleProvider.Scopes(), " "),
			FrontendURL: cfg.FrontendURL,
		},
	})

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLog())
	router.Use(middleware.CORS(cfg.FrontendURL))

	authHandler.RegisterRoutes(router, limiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "auth-service"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	cleanup := func() error {
		limiter.Stop()
		if redisClient != nil {
			return redisClient.Close()
		}
		return nil
	}
	return newApp(cfg.Port, router, cleanup), nil
}
