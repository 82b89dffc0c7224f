package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// ValidationError is a request the caller has to fix; its message is returned as is
type ValidationError struct {
	Message string // Message shown to the caller
}

func (e *ValidationError) Error() string { return e.Message }

// writeError maps err to a status code and a JSON error body
func writeError(c *gin.Context, err error, fields logrus.Fields) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message}) // Caller error, message verbatim
		return
	}
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["error"] = err.Error()                                                   // Keep the cause in the logs only
	logrus.WithFields(fields).Error("transaction store call failed")                // Log the failure
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"}) // Generic message to the caller
}
