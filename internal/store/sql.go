package store

import (
	"context" // Context for queries
	"fmt"     // Error wrapping
	"time"    // Timestamps and timeouts

	"github.com/google/uuid" // Row ids
	"gorm.io/gorm"           // GORM ORM library

	"geopaylog/internal/db"     // Connection and migration helpers
	"geopaylog/internal/domain" // Importing domain models
)

// SQLStore keeps transactions in a MySQL table through GORM.
type SQLStore struct {
	db      *gorm.DB      // Connection pool
	timeout time.Duration // Bound on each call
}

// NewSQLStore opens the mysql:// uri and migrates the transactions table.
func NewSQLStore(ctx context.Context, uri string, timeout time.Duration) (*SQLStore, error) {
	dsn, err := db.DSN(uri)
	if err != nil {
		return nil, err
	}
	gdb, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql connect: %w", err)
	}
	if err := db.Migrate(gdb.WithContext(ctx)); err != nil {
		if sqlDB, derr := gdb.DB(); derr == nil {
			_ = sqlDB.Close() // Release the pool opened above
		}
		return nil, fmt.Errorf("mysql migrate: %w", err)
	}
	return newSQLStore(gdb, timeout), nil
}

func newSQLStore(gdb *gorm.DB, timeout time.Duration) *SQLStore {
	return &SQLStore{db: gdb, timeout: timeout}
}

func (s *SQLStore) Save(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := uuid.NewV7() // Time ordered, so id desc follows insertion order
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: id: %v", ErrBackendUnavailable, err)
	}
	tx.ID = id.String()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&tx).Error; err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: mysql insert: %v", ErrBackendUnavailable, err)
	}
	return tx, nil
}

func (s *SQLStore) ListByOwner(ctx context.Context, deviceID string) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	txs := make([]domain.Transaction, 0)
	err := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at desc").
		Order("id desc").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: mysql query: %v", ErrBackendUnavailable, err)
	}
	for i := range txs {
		txs[i].CreatedAt = txs[i].CreatedAt.UTC()
	}
	return txs, nil
}

func (s *SQLStore) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
