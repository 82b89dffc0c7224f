// Package store persists transactions. A Gateway fronts either a durable
// backend (MongoDB or MySQL) or the in-process fallback, and callers use the
// same TransactionStore interface whichever one is answering.
package store

import (
	"context" // Context for store calls
	"errors"  // Sentinel errors
	"sort"    // Newest first ordering

	"geopaylog/internal/domain" // Importing domain models
)

// ErrBackendUnavailable wraps any failure of a durable backend call.
var ErrBackendUnavailable = errors.New("backend unavailable")

// TransactionStore saves transactions and lists them per device.
type TransactionStore interface {
	// Save stores tx and returns it with its id filled in. CreatedAt is
	// kept if already set.
	Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
	// ListByOwner returns every transaction of the device, newest first.
	// It returns an empty slice when there are none.
	ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error)
}

// Backend is a durable TransactionStore holding a connection that must be
// released on shutdown.
type Backend interface {
	TransactionStore
	Close(ctx context.Context) error
}

// sortNewestFirst orders by CreatedAt descending, then by id descending.
// Ids from the memory and SQL stores are UUIDv7 and ObjectIDs in Mongo, so
// the id order follows insertion order when timestamps tie.
func sortNewestFirst(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.After(txs[j].CreatedAt)
		}
		return txs[i].ID > txs[j].ID
	})
}
