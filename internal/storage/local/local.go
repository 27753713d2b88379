package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"games_storefront/internal/storage"
)

var ErrEmptyFolder = errors.New("folder path is empty")

// Storage keeps one file per key inside a folder.
type Storage struct {
	folderPath string
	mu         sync.RWMutex
}

func New(folderPath string) (*Storage, error) {
	const op = "storage.local.New"

	if folderPath == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyFolder)
	}

	s := &Storage{folderPath: filepath.Clean(folderPath)}

	if err := s.ensureFolderExists(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (s *Storage) ensureFolderExists() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.folderPath); os.IsNotExist(err) {
		if err := os.MkdirAll(s.folderPath, 0o700); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) path(key string) (string, error) {
	if err := storage.ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.folderPath, key), nil
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	const op = "storage.local.Get"

	fullPath, err := s.path(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(fullPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

// Set writes through a temp file and renames it over the old value.
func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	const op = "storage.local.Set"

	fullPath, err := s.path(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tempPath := fullPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrCreateFailed, err)
	}

	if _, err := file.Write(value); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("%s: %w: %w", op, storage.ErrUpdateFailed, err)
	}

	return nil
}

// Remove is a no-op for keys that do not exist.
func (s *Storage) Remove(_ context.Context, key string) error {
	const op = "storage.local.Remove"

	fullPath, err := s.path(key)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%s: %w: %w", op, storage.ErrDeleteFailed, err)
	}

	return nil
}

func (s *Storage) Close() error {
	return nil
}
