package store

import (
	"context"
	"fmt"
	"sync"

	"geopaylog/internal/domain"
)

// fakeBackend is a durable backend double that records calls.
type fakeBackend struct {
	mu      sync.Mutex
	txs     []domain.Transaction
	saveErr error
	listErr error
	lists   int
	closed  bool
}

func (f *fakeBackend) Save(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.Transaction{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, f.saveErr)
	}
	tx.ID = fmt.Sprintf("fake-%03d", len(f.txs)+1)
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeBackend) ListByOwner(_ context.Context, deviceID string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, f.listErr)
	}
	out := make([]domain.Transaction, 0)
	for _, tx := range f.txs {
		if tx.DeviceID == deviceID {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeBackend) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeBackend) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lists
}

func (f *fakeBackend) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func newTx(device string, amount float64) domain.Transaction {
	return domain.Transaction{
		DeviceID: device,
		Amount:   amount,
		Location: domain.Location{Lat: 28.6, Long: 77.2},
	}
}
