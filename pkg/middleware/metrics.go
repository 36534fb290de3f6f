package middleware

import (
	"strconv"

	"github.com/askloop/askloop-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware counts handled requests by method and status code.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
