package middleware

import (
	"strconv"
	"time"

	"mal_vip_backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records HTTP metrics for each request. The route
// template (not the raw path) labels the series so IDs do not explode
// metric cardinality.
func MetricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		reg.HTTPRequestsInFlight.WithLabelValues(endpoint).Inc()
		defer reg.HTTPRequestsInFlight.WithLabelValues(endpoint).Dec()

		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		reg.HTTPRequestsTotal.WithLabelValues(
			endpoint,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		reg.HTTPRequestDuration.WithLabelValues(
			endpoint,
			c.Request.Method,
		).Observe(duration)
	}
}
