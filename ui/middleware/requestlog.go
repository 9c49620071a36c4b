package middleware

import (
	"time"

	"roster/internal"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request through the component logger.
// Server errors are logged at WARN, everything else at INFO.
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		if status >= 500 {
			logger.Warn("%s %s %d (%.2fms) %s", c.Request.Method, path, status, elapsed, c.Errors.String())
			return
		}
		logger.Info("%s %s %d (%.2fms)", c.Request.Method, path, status, elapsed)
	}
}
