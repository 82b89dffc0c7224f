package api

import (
	"geopaylog/internal/domain"     // Importing domain models
	"geopaylog/internal/middleware" // Device identifier helpers
	"geopaylog/internal/store"      // Transaction storage
	"net/http"                      // HTTP status codes
	"strings"                       // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// CreateTransactionRequest represents a new expense logged by a device
type CreateTransactionRequest struct {
	DeviceID string   `json:"deviceId"` // Owner device
	Amount   *float64 `json:"amount"`   // Amount spent, pointer so that 0 is distinguishable from missing
	Note     string   `json:"note"`     // Optional note
	Lat      *float64 `json:"lat"`      // Latitude
	Long     *float64 `json:"long"`     // Longitude
}

// Validate checks that every required field is present
func (r *CreateTransactionRequest) Validate() error {
	var missing []string // Names of the missing fields
	if strings.TrimSpace(r.DeviceID) == "" {
		missing = append(missing, "deviceId")
	}
	if r.Amount == nil {
		missing = append(missing, "amount")
	}
	if r.Lat == nil {
		missing = append(missing, "lat")
	}
	if r.Long == nil {
		missing = append(missing, "long")
	}
	if len(missing) > 0 {
		return &ValidationError{Message: "Missing required fields (" + strings.Join(missing, ", ") + ")"}
	}
	return nil
}

// Transaction builds the domain transaction described by the request
func (r *CreateTransactionRequest) Transaction() domain.Transaction {
	return domain.Transaction{
		DeviceID: strings.TrimSpace(r.DeviceID),               // Owner device
		Amount:   *r.Amount,                                   // Amount spent
		Note:     r.Note,                                      // Optional note
		Location: domain.Location{Lat: *r.Lat, Long: *r.Long}, // Where it happened
	}
}

// CreateTransactionHandler logs a new geotagged transaction
func CreateTransactionHandler(s store.TransactionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Wrong JSON or non numeric amount/coordinates
			writeError(c, &ValidationError{Message: "Invalid request body: amount, lat and long must be numbers"}, nil)
			return
		}
		// Validate required fields
		if err := req.Validate(); err != nil {
			writeError(c, err, nil)
			return
		}
		saved, err := s.Save(c.Request.Context(), req.Transaction()) // Save through the active store
		if err != nil {
			writeError(c, err, logrus.Fields{
				"device_id": req.DeviceID, // Device
				"amount":    *req.Amount,  // Amount
			})
			return
		}
		// Log the saved transaction
		logrus.WithFields(logrus.Fields{
			"device_id": saved.DeviceID, // Device
			"id":        saved.ID,       // Transaction id
			"amount":    saved.Amount,   // Amount
			"note":      saved.Note,     // Note
		}).Info("Transaction logged")
		c.JSON(http.StatusCreated, saved) // Return the stored transaction
	}
}

// HistoryHandler returns every transaction of the calling device, newest first
func HistoryHandler(s store.TransactionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		deviceID, ok := middleware.DeviceID(c) // Get deviceID from context
		// Check if deviceID exists in context
		if !ok {
			writeError(c, &ValidationError{Message: "Missing x-device-id header"}, nil)
			return
		}
		txs, err := s.ListByOwner(c.Request.Context(), deviceID) // Query the active store
		if err != nil {
			writeError(c, err, logrus.Fields{"device_id": deviceID})
			return
		}
		c.JSON(http.StatusOK, txs) // Return transaction history
	}
}
