package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/api/handler"
	"github.com/use-agent/brandscan/api/middleware"
	"github.com/use-agent/brandscan/cache"
	"github.com/use-agent/brandscan/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(az *analyzer.Analyzer, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(cfg.Enhancer, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/analyze", handler.Analyze(az, cc))

	return r
}
