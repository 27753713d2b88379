package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"games_storefront/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS local_storage")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewWithDB(db)
	require.NoError(t, err)

	return s, mock
}

func TestStorage_Get(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM local_storage WHERE key = ?")).
			WithArgs("ns.user").
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"userId":3}`)))

		data, err := s.Get(context.Background(), "ns.user")
		assert.NoError(t, err)
		assert.Equal(t, `{"userId":3}`, string(data))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM local_storage WHERE key = ?")).
			WithArgs("ns.user").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), "ns.user")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("invalid key", func(t *testing.T) {
		_, err := s.Get(context.Background(), "../x")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Set(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	t.Run("upsert", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_storage (key, value, updated_at)")).
			WithArgs("ns.user", []byte("v")).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, s.Set(context.Background(), "ns.user", []byte("v")))
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO local_storage")).
			WillReturnError(errors.New("disk full"))

		err := s.Set(context.Background(), "ns.user", []byte("v"))
		assert.ErrorIs(t, err, storage.ErrUpdateFailed)
	})

	t.Run("invalid key", func(t *testing.T) {
		err := s.Set(context.Background(), "../x", []byte("v"))
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Remove(t *testing.T) {
	s, mock := setupMockDB(t)
	defer s.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM local_storage WHERE key = ?")).
		WithArgs("ns.user").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Remove(context.Background(), "ns.user"))
	assert.ErrorIs(t, s.Remove(context.Background(), "../x"), storage.ErrInvalidKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}
