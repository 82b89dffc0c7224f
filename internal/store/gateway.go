package store

import (
	"context"     // Context for store calls and the startup attempt
	"errors"      // Error values
	"fmt"         // Error wrapping
	"sync"        // Start once
	"sync/atomic" // Published snapshot
	"time"        // Timestamps and timeouts

	"github.com/sirupsen/logrus" // Logging library

	"geopaylog/internal/domain" // Importing domain models
)

// Mode tells which backend a Gateway is delegating to.
type Mode int32

const (
	// ModeFallback serves from process memory.
	ModeFallback Mode = iota
	// ModeDurable serves from the connected durable backend.
	ModeDurable
)

func (m Mode) String() string {
	switch m {
	case ModeDurable:
		return "durable"
	default:
		return "fallback"
	}
}

// Dialer opens a durable backend. A Gateway calls it once, at startup.
type Dialer func(ctx context.Context) (Backend, error)

// snapshot is published whole and never modified afterwards.
type snapshot struct {
	mode    Mode
	store   TransactionStore
	backend Backend // nil in fallback mode
}

// Gateway routes Save and ListByOwner to whichever store is active. It
// starts in fallback mode and switches to durable mode once, when the
// startup connection attempt succeeds. Requests served before that stay in
// memory and are not copied over. A later durable failure is returned to
// the caller and never switches back.
type Gateway struct {
	current atomic.Pointer[snapshot] // Active mode and store
	now     func() time.Time         // Clock for CreatedAt

	startOnce sync.Once          // Guards Start
	ready     chan struct{}      // Closed when the startup attempt resolved
	cancel    context.CancelFunc // Abandons the startup attempt
}

// NewGateway returns a Gateway in fallback mode serving from fallback.
func NewGateway(fallback TransactionStore) *Gateway {
	g := &Gateway{
		now:    time.Now,
		ready:  make(chan struct{}),
		cancel: func() {},
	}
	g.current.Store(&snapshot{mode: ModeFallback, store: fallback})
	return g
}

// Start launches the connection attempt in the background and returns
// immediately. A nil dial means no backend is configured: the Gateway stays
// in fallback mode and Ready is closed right away. Only the first call has
// any effect.
func (g *Gateway) Start(ctx context.Context, dial Dialer, timeout time.Duration) {
	g.startOnce.Do(func() {
		if dial == nil {
			logrus.Warn("no durable backend configured, using in-memory storage")
			close(g.ready)
			return
		}
		ctx, cancel := context.WithCancel(ctx)
		g.cancel = cancel
		go g.connect(ctx, dial, timeout)
	})
}

func (g *Gateway) connect(ctx context.Context, dial Dialer, timeout time.Duration) {
	defer close(g.ready)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	backend, err := g.dial(ctx, dial)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("durable backend connection failed, staying in in-memory mode")
		return
	}
	g.current.Store(&snapshot{mode: ModeDurable, store: backend, backend: backend})
	logrus.Info("connected to durable backend")
}

// dial calls d and turns a panic into an error.
func (g *Gateway) dial(ctx context.Context, d Dialer) (b Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("dial panicked: %v", r)
		}
	}()
	b, err = d(ctx)
	if err == nil && b == nil {
		err = errors.New("dialer returned no backend")
	}
	return b, err
}

// Ready is closed once the startup connection attempt has resolved either way.
func (g *Gateway) Ready() <-chan struct{} {
	return g.ready
}

// Mode reports the active mode.
func (g *Gateway) Mode() Mode {
	return g.current.Load().mode
}

// Save stamps CreatedAt and stores tx in the active store.
func (g *Gateway) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.CreatedAt = g.now().UTC().Truncate(time.Millisecond)
	return g.current.Load().store.Save(ctx, tx)
}

func (g *Gateway) ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error) {
	txs, err := g.current.Load().store.ListByOwner(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []domain.Transaction{}
	}
	return txs, nil
}

// Close abandons a pending connection attempt and releases the durable
// backend, if one was connected.
func (g *Gateway) Close(ctx context.Context) error {
	g.startOnce.Do(func() { close(g.ready) })
	g.cancel()
	select {
	case <-g.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if b := g.current.Load().backend; b != nil {
		return b.Close(ctx)
	}
	return nil
}
