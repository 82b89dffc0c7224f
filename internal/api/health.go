package api

import (
	"geopaylog/internal/store" // Transaction storage
	"net/http"                 // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// StatusReporter exposes the storage mode for health checks
type StatusReporter interface {
	Mode() store.Mode       // Active storage mode
	Ready() <-chan struct{} // Closed once the startup connection attempt resolved
}

// HealthHandler answers the plain text liveness check
func HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "GeoPayLog API is Running")
	}
}

// StatusHandler reports which storage mode is serving requests
func StatusHandler(r StatusReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := r.Mode().String() // Current mode
		select {
		case <-r.Ready():
		default:
			mode = "connecting" // Startup attempt still running, memory is serving
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode})
	}
}
