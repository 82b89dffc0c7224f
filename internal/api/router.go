package api

import (
	"geopaylog/internal/middleware" // Request middleware
	"geopaylog/internal/store"      // Transaction storage

	"github.com/gin-contrib/cors" // CORS for the mobile client
	"github.com/gin-gonic/gin"    // Gin web framework
)

// NewRouter wires every route; handlers only ever see the TransactionStore interface
func NewRouter(s store.TransactionStore, status StatusReporter) *gin.Engine {
	r := gin.New() // Gin router instance
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors.New(corsConfig()))

	r.GET("/", HealthHandler())              // Liveness check
	r.GET("/healthz", StatusHandler(status)) // Storage mode

	apiGroup := r.Group("/api")
	apiGroup.POST("/log", CreateTransactionHandler(s))                        // Create endpoint
	apiGroup.GET("/history", middleware.RequireDeviceID(), HistoryHandler(s)) // History endpoint
	return r
}

// corsConfig allows any origin and the device header
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, middleware.DeviceIDHeader)
	return cfg
}
