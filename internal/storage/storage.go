package storage

import (
	"context"
	"errors"
	"regexp"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidKey   = errors.New("invalid key")
	ErrCreateFailed = errors.New("failed to create")
	ErrUpdateFailed = errors.New("failed to update")
	ErrDeleteFailed = errors.New("failed to delete")
)

// KV is the durable key/value store that backs visitor sessions.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,200}$`)

// ValidateKey limits keys to characters that are safe as file names.
func ValidateKey(key string) error {
	if !keyRe.MatchString(key) || key == "." || key == ".." {
		return ErrInvalidKey
	}
	return nil
}
