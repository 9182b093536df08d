package app

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angaddubey10/oauth-demo/internal/config"
	"github.com/angaddubey10/oauth-demo/internal/frontend"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/middleware"
	"github.com/angaddubey10/oauth-demo/internal/redis"
	"github.com/angaddubey10/oauth-demo/internal/session"
)

// NewFrontendService wires the session gateway: browser pages, the
// cookie-keyed session store, and the API relay.
func NewFrontendService(cfg config.Frontend) (*App, error) {
	var redisClient *redis.Client
	var sessions session.Store = session.NewMemoryStore()
	if cfg.RedisAddr != "" {
		client, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		redisClient = client
		sessions = session.NewRedisStore(redisClient.Client)
		slog.Info("session store backed by redis", "addr", cfg.RedisAddr)
	}

	registry := prometheus.NewRegistry()
	gatewayMetrics := metrics.NewGateway(registry)

	// One client for both upstreams; nil falls back to the package
	// default timeout.
	var httpClient *http.Client
	if cfg.UpstreamTimeout > 0 {
		httpClient = &http.Client{Timeout: cfg.UpstreamTimeout}
	}

	gateway := frontend.New(frontend.Config{
		Sessions:     sessions,
		Auth:         frontend.NewAuthClient(cfg.AuthServiceURL, httpClient),
		Resources:    frontend.NewResourceClient(cfg.ResourceServiceURL, httpClient),
		Metrics:      gatewayMetrics,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLog())
	router.SetHTMLTemplate(frontend.Templates)

	gateway.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "frontend"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	cleanup := func() error {
		if redisClient != nil {
			return redisClient.Close()
		}
		return nil
	}
	return newApp(cfg.Port, router, cleanup), nil
}
