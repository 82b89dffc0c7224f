package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For trimming values
	"time"    // For timeouts

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string        // Application port
	StoreURI       string        // Durable backend connection string, empty means in-memory only
	MongoDatabase  string        // Mongo database name
	RedisAddr      string        // Redis server address, empty disables the history cache
	RedisPass      string        // Redis password
	RedisDB        int           // Redis database number
	ConnectTimeout time.Duration // Bound on the startup connection attempt
	StoreTimeout   time.Duration // Bound on every durable backend call
	IsProd         bool          // Is production environment
	LogLevel       string        // Logrus level name
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:        env("APP_PORT", "5000"),                     // Application port
		StoreURI:       strings.TrimSpace(os.Getenv("MONGODB_URI")), // Durable backend
		MongoDatabase:  env("MONGODB_DATABASE", "geopaylog"),        // Mongo database name
		RedisAddr:      os.Getenv("REDIS_ADDR"),                     // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),                     // Redis password
		RedisDB:        redisDB,                                     // Redis database number
		ConnectTimeout: duration("CONNECT_TIMEOUT", 10*time.Second), // Startup connection bound
		StoreTimeout:   duration("STORE_TIMEOUT", 5*time.Second),    // Per-call bound
		IsProd:         os.Getenv("IS_PROD") == "true",              // Is production environment
		LogLevel:       strings.ToLower(env("LOG_LEVEL", "info")),   // Log level
	}
}

// env returns the value of k or def when unset or empty
func env(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

// duration parses k as a Go duration, falling back to def on absence or bad input
func duration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
