package store

import (
	"context" // Context for store calls
	"sync"    // Guards the slice
	"time"    // Timestamps

	"github.com/google/uuid" // Transaction ids

	"geopaylog/internal/domain" // Importing domain models
)

// MemoryStore keeps transactions in process memory. Everything is lost when
// the process exits.
type MemoryStore struct {
	mu  sync.RWMutex         // Guards txs
	txs []domain.Transaction // Insertion order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	id, err := uuid.NewV7() // Time ordered, so id desc follows insertion order
	if err != nil {
		id = uuid.New()
	}
	tx.ID = id.String()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, tx)
	return tx, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, deviceID string) ([]domain.Transaction, error) {
	m.mu.RLock()
	out := make([]domain.Transaction, 0)
	for i := len(m.txs) - 1; i >= 0; i-- {
		if m.txs[i].DeviceID == deviceID {
			out = append(out, m.txs[i])
		}
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// Len reports how many transactions are held, across all devices.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.txs)
}
