package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angaddubey10/oauth-demo/internal/config"
	"github.com/angaddubey10/oauth-demo/internal/metrics"
	"github.com/angaddubey10/oauth-demo/internal/middleware"
	"github.com/angaddubey10/oauth-demo/internal/resource"
	"github.com/angaddubey10/oauth-demo/internal/token"
)

// NewResourceService wires the resource service: token verification
// guard plus the role-gated document routes.
func NewResourceService(cfg config.Resource) (*App, error) {
	codec, err := token.NewCodec(token.Config{Secret: cfg.JWTSecret})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	resourceMetrics := metrics.NewResource(registry)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLog())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		resourceMetrics.RecordRequest(route, c.Writer.Status())
	})

	resource.New().RegisterRoutes(router, middleware.NewAuth(codec))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "resource-service"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(registry)))

	return newApp(cfg.Port, router, nil), nil
}
