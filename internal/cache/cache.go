// Package cache stores JSON encoded values in Redis.
package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"strconv"       // Version formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// DefaultHistoryTTL is how long a cached device history stays valid
const DefaultHistoryTTL = 60 * time.Second

// historyPrefix starts every history related key
const historyPrefix = "txhistory:device:"

// HistoryVersionKey holds the write counter of a device; it never expires
func HistoryVersionKey(deviceID string) string {
	return historyPrefix + deviceID + ":ver"
}

// HistoryKey is the key holding the history of a device as of the given version
func HistoryKey(deviceID string, version int64) string {
	return historyPrefix + deviceID + ":v" + strconv.FormatInt(version, 10)
}

// HistoryVersion returns the current write counter of a device, 0 if it never wrote
func HistoryVersion(ctx context.Context, rdb *redis.Client, deviceID string) (int64, error) {
	v, err := rdb.Get(ctx, HistoryVersionKey(deviceID)).Int64() // Read the counter
	if errors.Is(err, redis.Nil) {
		return 0, nil // No write yet
	}
	return v, err
}

// BumpHistoryVersion moves the device to a new version so that histories cached
// under older versions, including ones written by reads still in flight, are never served again
func BumpHistoryVersion(ctx context.Context, rdb *redis.Client, deviceID string) (int64, error) {
	return rdb.Incr(ctx, HistoryVersionKey(deviceID)).Result() // Atomic increment
}

// Get retrieves a value from Redis and unmarshals it into dest
func Get(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with a specified TTL
func Set(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}
