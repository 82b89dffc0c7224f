package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var transactionColumns = []string{
	"id", "device_id", "amount", "note", "location_lat", "location_long", "location_address", "created_at",
}

func newMockSQLStore(t *testing.T) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return newSQLStore(gdb, time.Second), mock
}

func TestSQLStore_SaveAssignsTimeOrderedID(t *testing.T) {
	s, mock := newMockSQLStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `transactions`")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	in := newTx("abc", 50)
	in.Note = "Lunch"
	in.CreatedAt = at
	got, err := s.Save(context.Background(), in)
	require.NoError(t, err)

	id, err := uuid.Parse(got.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.True(t, got.CreatedAt.Equal(at))
	assert.Equal(t, "Lunch", got.Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SaveFailureIsBackendUnavailable(t *testing.T) {
	s, mock := newMockSQLStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `transactions`")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.Save(context.Background(), newTx("abc", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListByOwnerOrdersNewestThenIDDesc(t *testing.T) {
	s, mock := newMockSQLStore(t)
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(transactionColumns).
		AddRow("0190a000-0000-7000-8000-000000000002", "abc", 20.0, "", 1.0, 2.0, "", at).
		AddRow("0190a000-0000-7000-8000-000000000001", "abc", 10.0, "Tea", 1.0, 2.0, "", at)
	mock.ExpectQuery(`SELECT \* FROM ` + "`transactions`" + ` WHERE device_id = \? ORDER BY created_at desc,\s*id desc`).
		WithArgs("abc").
		WillReturnRows(rows)

	got, err := s.ListByOwner(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 20.0, got[0].Amount)
	assert.Equal(t, "Tea", got[1].Note)
	assert.Equal(t, 1.0, got[1].Location.Lat)
	assert.Equal(t, time.UTC, got[0].CreatedAt.Location())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_ListByOwnerEmpty(t *testing.T) {
	s, mock := newMockSQLStore(t)
	mock.ExpectQuery(`SELECT \* FROM ` + "`transactions`").
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	got, err := s.ListByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSQLStore_ListFailureIsBackendUnavailable(t *testing.T) {
	s, mock := newMockSQLStore(t)
	mock.ExpectQuery(`SELECT \* FROM ` + "`transactions`").
		WillReturnError(errors.New("server gone away"))

	_, err := s.ListByOwner(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBackendUnavailable))
}
