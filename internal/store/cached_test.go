package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geopaylog/internal/cache"
	"geopaylog/internal/domain"
)

func newCachedOver(t *testing.T, next Backend) (*CachedBackend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCachedBackend(next, rdb, time.Minute), mr
}

func newCached(t *testing.T) (*CachedBackend, *fakeBackend, *miniredis.Miniredis) {
	t.Helper()
	next := &fakeBackend{}
	c, mr := newCachedOver(t, next)
	return c, next, mr
}

// slowListBackend reads from the wrapped fake, then holds the result until released.
type slowListBackend struct {
	*fakeBackend
	read    chan struct{}
	release chan struct{}
}

func (s *slowListBackend) ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error) {
	txs, err := s.fakeBackend.ListByOwner(ctx, deviceID)
	s.read <- struct{}{}
	<-s.release
	return txs, err
}

func TestCachedBackend_ListServedFromCache(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newCached(t)

	tx := newTx("abc", 50)
	tx.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := c.Save(ctx, tx)
	require.NoError(t, err)

	first, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, mr.Exists(cache.HistoryKey("abc", 1)))

	second, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, next.listCalls())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, first[0].CreatedAt.Equal(second[0].CreatedAt))
}

func TestCachedBackend_SaveInvalidatesDevice(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newCached(t)

	_, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	_, err = c.ListByOwner(ctx, "xyz")
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.HistoryKey("abc", 0)))

	_, err = c.Save(ctx, newTx("abc", 5))
	require.NoError(t, err)

	got, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 3, next.listCalls())

	// The other device keeps its cached history.
	_, err = c.ListByOwner(ctx, "xyz")
	require.NoError(t, err)
	assert.Equal(t, 3, next.listCalls())
}

func TestCachedBackend_ReadInFlightDuringSaveDoesNotHideIt(t *testing.T) {
	ctx := context.Background()
	slow := &slowListBackend{
		fakeBackend: &fakeBackend{},
		read:        make(chan struct{}),
		release:     make(chan struct{}),
	}
	c, _ := newCachedOver(t, slow)

	done := make(chan []domain.Transaction, 1)
	go func() {
		txs, _ := c.ListByOwner(ctx, "abc")
		done <- txs
	}()
	<-slow.read // The list has read an empty history and is about to cache it

	saved, err := c.Save(ctx, newTx("abc", 50))
	require.NoError(t, err)

	close(slow.release)
	assert.Empty(t, <-done)

	// Later reads go to the backend again; let them through.
	go func() {
		for range slow.read {
		}
	}()
	defer close(slow.read)

	got, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved.ID, got[0].ID)
}

func TestCachedBackend_EmptyHistoryStaysEmptySlice(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newCached(t)

	for i := 0; i < 2; i++ {
		got, err := c.ListByOwner(ctx, "nobody")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestCachedBackend_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newCached(t)
	mr.Close()

	saved, err := c.Save(ctx, newTx("abc", 7))
	require.NoError(t, err)

	got, err := c.ListByOwner(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, saved.ID, got[0].ID)
	assert.Equal(t, 1, next.listCalls())
}

func TestCachedBackend_BackendErrorNotCached(t *testing.T) {
	ctx := context.Background()
	c, next, mr := newCached(t)
	next.listErr = errors.New("timeout")

	_, err := c.ListByOwner(ctx, "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.False(t, mr.Exists(cache.HistoryKey("abc", 0)))
}

func TestCachedBackend_CloseClosesBackend(t *testing.T) {
	c, next, _ := newCached(t)
	require.NoError(t, c.Close(context.Background()))
	assert.True(t, next.isClosed())
}
