package db

import (
	"context"                   // Context for connection checks
	"errors"                    // Error values
	"geopaylog/internal/domain" // Importing domain models
	"strings"                   // Prefix handling

	gomysql "github.com/go-sql-driver/mysql" // DSN parsing for MySQL
	"github.com/sirupsen/logrus"             // Logging library
	"gorm.io/driver/mysql"                   // MySQL driver for GORM
	"gorm.io/gorm"                           // GORM ORM library
	"gorm.io/gorm/logger"                    // GORM logger
)

// MySQLScheme prefixes connection strings that select the SQL backend
const MySQLScheme = "mysql://"

// ErrNotMySQL is returned by DSN for connection strings of another backend
var ErrNotMySQL = errors.New("connection string is not a mysql:// URI")

// IsMySQL reports whether uri selects the SQL backend
func IsMySQL(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), MySQLScheme)
}

// DSN converts a mysql:// connection string into a driver DSN with time parsing enabled
func DSN(uri string) (string, error) {
	if !IsMySQL(uri) {
		return "", ErrNotMySQL // Not ours
	}
	cfg, err := gomysql.ParseDSN(uri[len(MySQLScheme):]) // Parse the driver part
	if err != nil {
		return "", err // Malformed DSN
	}
	cfg.ParseTime = true // Scan DATETIME into time.Time
	return cfg.FormatDSN(), nil
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	// Open a connection to the database
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB() // Underlying pool
	if err != nil {
		return nil, err
	}
	// Ping so an unreachable server fails now rather than on the first request
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing columns and indexes
	if err := db.AutoMigrate(&domain.Transaction{}); err != nil {
		return err
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}
