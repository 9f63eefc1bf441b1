package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandscan/config"
	"github.com/use-agent/brandscan/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports "degraded" when enhancement is enabled but no credential is set,
// since every description will then carry the missing-key annotation.
func Health(cfg config.EnhancerConfig, startTime time.Time) gin.HandlerFunc {
	enhancer := "disabled"
	status := "healthy"
	if cfg.Enabled {
		enhancer = cfg.Provider
		if cfg.APIKey == "" {
			status = "degraded"
		}
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   status,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Enhancer: enhancer,
			Version:  Version,
		})
	}
}
