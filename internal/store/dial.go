package store

import (
	"context" // Context for the connection attempt
	"strings" // Trimming
	"time"    // Timeouts

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"geopaylog/internal/db" // Backend selection by scheme
)

// DialConfig describes the durable backend and its optional history cache.
type DialConfig struct {
	URI           string        // mongodb://, mongodb+srv:// or mysql://
	MongoDatabase string        // database used for mongodb URIs
	CallTimeout   time.Duration // bound on each backend call
	RedisAddr     string        // empty disables the cache
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	HistoryTTL    time.Duration // Lifetime of a cached history
}

// NewDialer returns the Dialer for cfg, or nil when no URI is configured.
func NewDialer(cfg DialConfig) Dialer {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil
	}
	return func(ctx context.Context) (Backend, error) {
		var (
			backend Backend
			err     error
		)
		if db.IsMySQL(uri) {
			backend, err = NewSQLStore(ctx, uri, cfg.CallTimeout)
		} else {
			backend, err = NewMongoStore(ctx, uri, cfg.MongoDatabase, cfg.CallTimeout)
		}
		if err != nil {
			return nil, err
		}
		if cfg.RedisAddr == "" {
			return backend, nil
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logrus.WithFields(logrus.Fields{
				"redis_addr": cfg.RedisAddr,
				"error":      err.Error(),
			}).Warn("redis unreachable, history cache disabled")
			_ = rdb.Close()
			return backend, nil
		}
		return NewCachedBackend(backend, rdb, cfg.HistoryTTL), nil
	}
}
