package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covermap/covermap/internal/telemetry"
)

// skipLogPaths are not worth a request log line.
var skipLogPaths = map[string]bool{
	"/health": true,
}

// RequestLogger attaches a correlation ID to every request and logs method,
// path, status and duration on completion.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipLogPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()

		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = telemetry.NewCorrelationID()
		}
		c.Header("X-Correlation-ID", correlationID)

		ctx := telemetry.WithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
			"client_ip":   c.ClientIP(),
		}).Info("Request completed")
	}
}
