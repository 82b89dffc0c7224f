package middleware

import (
	"time" // Request latency

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLogger logs one line per request with logrus
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start
		c.Next()            // Run the handlers
		fields := logrus.Fields{
			"method":    c.Request.Method,           // HTTP method
			"path":      c.FullPath(),               // Route pattern
			"status":    c.Writer.Status(),          // Response status
			"latency":   time.Since(start).String(), // Time spent
			"client_ip": c.ClientIP(),               // Caller address
		}
		if id := c.GetHeader(DeviceIDHeader); id != "" {
			fields["device_id"] = id // Device when known
		}
		entry := logrus.WithFields(fields)
		// Server errors at error level, the rest at info
		if c.Writer.Status() >= 500 {
			entry.Error("request failed")
			return
		}
		entry.Info("request served")
	}
}
