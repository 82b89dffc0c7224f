package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// DeviceIDHeader carries the caller's device identifier
const DeviceIDHeader = "x-device-id"

// DeviceIDKey is the gin context key holding the device identifier
const DeviceIDKey = "deviceID"

// RequireDeviceID rejects requests without a device identifier header and stores it in the context
func RequireDeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID := strings.TrimSpace(c.GetHeader(DeviceIDHeader)) // Get device header
		// Check if the header is present
		if deviceID == "" {
			// If not, abort with bad request status
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing x-device-id header"})
			return
		}
		c.Set(DeviceIDKey, deviceID) // Store deviceID in context
		c.Next()                     // Proceed to the next handler
	}
}

// DeviceID returns the identifier stored by RequireDeviceID
func DeviceID(c *gin.Context) (string, bool) {
	v, ok := c.Get(DeviceIDKey) // Get deviceID from context
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
