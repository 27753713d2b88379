package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"games_storefront/internal/storage"
)

// Key is the fixed storage key of the serialized session inside a
// visitor namespace.
const Key = "user"

type Session struct {
	UserID int    `json:"userId"`
	Token  string `json:"token"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil
}

// Notifier tells the API that a token is being discarded.
type Notifier interface {
	Logout(ctx context.Context, token string) error
}

// Store persists one session per visitor namespace.
type Store struct {
	kv  storage.KV
	log *slog.Logger
}

func NewStore(kv storage.KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

func storageKey(namespace string) string {
	return namespace + "." + Key
}

// Load returns nil when the visitor has no session. Unreadable data is
// removed and reported as no session.
func (s *Store) Load(ctx context.Context, namespace string) (*Session, error) {
	const op = "session.Load"

	data, err := s.kv.Get(ctx, storageKey(namespace))
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" || sess.UserID <= 0 {
		s.log.Warn("discarding malformed session", slog.String("operation", op))
		if err := s.kv.Remove(ctx, storageKey(namespace)); err != nil {
			s.log.Error("failed to remove malformed session",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
		return nil, nil
	}

	return &sess, nil
}

func (s *Store) Login(ctx context.Context, namespace string, sess Session) error {
	const op = "session.Login"

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.kv.Set(ctx, storageKey(namespace), data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Logout notifies the API if there is a session and always removes it
// locally. A failed notification is logged, not returned.
func (s *Store) Logout(ctx context.Context, namespace string, n Notifier) error {
	const op = "session.Logout"

	sess, err := s.Load(ctx, namespace)
	if err != nil {
		s.log.Warn("failed to load session before logout",
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}

	if sess != nil && n != nil {
		if err := n.Logout(ctx, sess.Token); err != nil {
			s.log.Warn("server logout failed",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}
	}

	if err := s.kv.Remove(ctx, storageKey(namespace)); err != nil && !errors.Is(err, storage.ErrInvalidKey) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
