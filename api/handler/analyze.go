package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/brandscan/analyzer"
	"github.com/use-agent/brandscan/cache"
	"github.com/use-agent/brandscan/models"
)

// Analyze returns a handler for POST /api/v1/analyze.
//
// The body is the same one-shape result the CLI prints. Cache status is
// reported in the X-Cache header so the body shape never changes.
func Analyze(az *analyzer.Analyzer, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResult{Error: err.Error(), Code: models.ErrCodeInvalidInput})
			return
		}
		req.Defaults()

		cacheKey := cache.Key(req.URL, *req.Enhance)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.Header("X-Cache", "hit")
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		result := az.Analyze(c.Request.Context(), req.URL, analyzer.Options{SkipEnhance: !*req.Enhance})
		if result.Failed() {
			c.JSON(mapErrorToStatus(result.Code), result)
			return
		}

		if cc != nil && req.MaxAge > 0 {
			cc.Set(cacheKey, result)
			c.Header("X-Cache", "miss")
		}

		c.JSON(http.StatusOK, result)
	}
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(code string) int {
	switch code {
	case models.ErrCodeInvalidInput, models.ErrCodeMissingArgument:
		return http.StatusBadRequest // 400
	case models.ErrCodeNetwork, models.ErrCodeHTTPStatus:
		return http.StatusBadGateway // 502
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
