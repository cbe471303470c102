// internal/api/router.go
package api

import (
	"context"
	"net/http"
	"time"

	"mandi-workers/internal/common/config"
	"mandi-workers/internal/common/logger"
	"mandi-workers/internal/mandi"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type Options struct {
	ServiceName string
	Catalog     *mandi.Catalog
	DefaultMode mandi.RankMode
	MaxItems    int
	Checks      map[string]Check
	Server      config.ServerConfig
	Sentry      bool
	Logger      logger.Logger
}

// NewRouter builds the ops and preview router. A nil Logger discards request
// logs.
func NewRouter(opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(opts.Logger))
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(cors.New(corsConfig(opts.Server.CORSOrigins)))

	h := &handlers{
		service:     opts.ServiceName,
		catalog:     opts.Catalog,
		defaultMode: opts.DefaultMode,
		maxItems:    opts.MaxItems,
		checks:      opts.Checks,
		logger:      opts.Logger,
	}

	r.GET("/health", h.health)
	r.GET("/ready", h.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	if opts.Server.RateLimitRPS > 0 {
		v1.Use(rateLimit(opts.Server.RateLimitRPS, opts.Server.RateLimitBurst))
	}
	{
		v1.GET("/scenarios", h.listScenarios)
		v1.GET("/scenarios/:key", h.getScenario)
		v1.GET("/mandis", h.listMandis)
		v1.POST("/recommendations", h.recommend)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
