package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/longlong7211/intern-manager-sub000/internal/service"
)

// Metrics observes every request on the registered routes. Unmatched paths are
// collapsed into a single label so probes against random URLs cannot blow up
// the path cardinality.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}
