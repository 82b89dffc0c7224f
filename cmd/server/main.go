package main

import (
	"context"                   // Context for startup and shutdown
	"errors"                    // Error matching
	"geopaylog/internal/api"    // Custom package for API handlers
	"geopaylog/internal/cache"  // Custom package for the history cache
	"geopaylog/internal/config" // Custom package for configuration
	"geopaylog/internal/store"  // Custom package for transaction storage
	"net/http"                  // HTTP server
	"os"                        // Signals
	"os/signal"                 // Signal notification
	"syscall"                   // SIGTERM
	"time"                      // Shutdown deadline

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	setupLogger(cfg) // Setup logger

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Storage starts in memory; the durable backend is connected in the background
	gateway := store.NewGateway(store.NewMemoryStore())
	gateway.Start(context.Background(), store.NewDialer(store.DialConfig{
		URI:           cfg.StoreURI,            // Durable backend connection string
		MongoDatabase: cfg.MongoDatabase,       // Mongo database name
		CallTimeout:   cfg.StoreTimeout,        // Per-call bound
		RedisAddr:     cfg.RedisAddr,           // Redis server address
		RedisPass:     cfg.RedisPass,           // Redis password
		RedisDB:       cfg.RedisDB,             // Redis database number
		HistoryTTL:    cache.DefaultHistoryTTL, // Cache lifetime
	}), cfg.ConnectTimeout)

	r := api.NewRouter(gateway, gateway) // Gin router instance
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Listen on all interfaces so phones on the local network can reach it
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logrus.WithField("addr", srv.Addr).Info("Server running") // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("http shutdown failed")
	}
	if err := gateway.Close(ctx); err != nil {
		logrus.WithError(err).Error("storage shutdown failed")
	}
}

// setupLogger picks the formatter and level from the configuration
func setupLogger(cfg *config.Config) {
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
