package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"games_storefront/internal/storage"

	_ "github.com/mattn/go-sqlite3"
)

const createTable = `
	CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

type Storage struct {
	DB *sql.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := NewWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// NewWithDB wraps an open connection and creates the table if needed.
func NewWithDB(db *sql.DB) (*Storage, error) {
	const op = "storage.sqlite.NewWithDB"

	if _, err := db.Exec(createTable); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	const op = "storage.sqlite.Get"

	if err := storage.ValidateKey(key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var value []byte
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return value, nil
}

func (s *Storage) Set(ctx context.Context, key string, value []byte) error {
	const op = "storage.sqlite.Set"

	if err := storage.ValidateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	const op = "storage.sqlite.Remove"

	if err := storage.ValidateKey(key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.DB.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrDeleteFailed, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
