package store

import (
	"context" // Context for backend and Redis calls
	"time"    // Cache lifetime

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library

	"geopaylog/internal/cache"  // Redis JSON helpers and history keys
	"geopaylog/internal/domain" // Importing domain models
)

// CachedBackend serves ListByOwner from Redis when possible. Every Save moves
// the device to a new history version, so a list read that started before the
// save can only fill the cache under the version it began with, which no later
// read looks at. Redis failures are logged and the call goes through to the
// wrapped backend.
type CachedBackend struct {
	next Backend       // Durable backend
	rdb  *redis.Client // Redis client
	ttl  time.Duration // Lifetime of a cached history
}

func NewCachedBackend(next Backend, rdb *redis.Client, ttl time.Duration) *CachedBackend {
	if ttl <= 0 {
		ttl = cache.DefaultHistoryTTL
	}
	return &CachedBackend{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedBackend) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	saved, err := c.next.Save(ctx, tx)
	if err != nil {
		return saved, err
	}
	if _, err := cache.BumpHistoryVersion(ctx, c.rdb, saved.DeviceID); err != nil {
		c.warn(saved.DeviceID, err, "history cache invalidation failed")
	}
	return saved, nil
}

func (c *CachedBackend) ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error) {
	version, err := cache.HistoryVersion(ctx, c.rdb, deviceID) // Version before reading the backend
	if err != nil {
		c.warn(deviceID, err, "history cache version read failed")
		return c.next.ListByOwner(ctx, deviceID) // No version, no caching
	}
	key := cache.HistoryKey(deviceID, version)

	var cached []domain.Transaction
	found, err := cache.Get(ctx, c.rdb, key, &cached)
	if err != nil {
		c.warn(deviceID, err, "history cache read failed")
	} else if found {
		if cached == nil {
			cached = []domain.Transaction{}
		}
		return cached, nil
	}

	txs, err := c.next.ListByOwner(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if err := cache.Set(ctx, c.rdb, key, txs, c.ttl); err != nil {
		c.warn(deviceID, err, "history cache write failed")
	}
	return txs, nil
}

func (c *CachedBackend) warn(deviceID string, err error, msg string) {
	logrus.WithFields(logrus.Fields{
		"device_id": deviceID,    // Device
		"error":     err.Error(), // Redis error
	}).Warn(msg)
}

// Close closes the wrapped backend, then the Redis client.
func (c *CachedBackend) Close(ctx context.Context) error {
	err := c.next.Close(ctx)
	if rerr := c.rdb.Close(); err == nil {
		err = rerr
	}
	return err
}
