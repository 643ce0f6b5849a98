// Package api serves the matching service over HTTP.
package api

import (
	"net/http"
	"time"

	"caregiver-matcher/internal/common/config"
	"caregiver-matcher/internal/common/logger"
	"caregiver-matcher/internal/common/observability"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	Service   MatchingService
	RateLimit config.RateLimitConfig
	Logger    logger.Logger
}

// NewRouter builds the API engine:
//
//	POST /api/v1/matches
//	POST /api/v1/matches/:matchId/feedback
//	GET  /healthz
func NewRouter(opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(opts.Logger))
	if opts.RateLimit.Enabled {
		router.Use(RateLimit(opts.RateLimit, opts.Logger))
	}

	h := NewHandler(opts.Service, opts.Logger)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)})
	})

	v1 := router.Group("/api/v1")
	v1.POST("/matches", h.FindMatches)
	v1.POST("/matches/:matchId/feedback", h.RecordFeedback)

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := observability.StartSpan(c.Request.Context(), "http "+c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if traceID := observability.TraceID(ctx); traceID != "" {
			fields["traceId"] = traceID
		}
		log.Debug("HTTP request", fields)
	}
}
