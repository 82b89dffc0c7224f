package main

import (
	"context"                   // Context for the connection check
	"geopaylog/internal/config" // Custom import path (Config)
	"geopaylog/internal/db"     // Custom import path (Database)
	"time"                      // Connection timeout

	"github.com/sirupsen/logrus" // Logging library
)

// Main entry point for migration of the MySQL backend
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Only the SQL backend has a schema; Mongo needs no migration
	dsn, err := db.DSN(cfg.StoreURI)
	if err != nil {
		logrus.Fatalf("MONGODB_URI must be a mysql:// connection string: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	gdb, err := db.Open(ctx, dsn) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
}
