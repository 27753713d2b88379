package middleware

import (
	"context"

	"games_storefront/internal/session"
)

type contextKey string

const (
	SessionKey   = contextKey("session")
	NamespaceKey = contextKey("namespace")
	RequestIDKey = contextKey("requestID")
	CSRFTokenKey = contextKey("csrfToken")
)

// SessionFromContext returns nil for anonymous visitors.
func SessionFromContext(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(SessionKey).(*session.Session)
	return sess
}

func NamespaceFromContext(ctx context.Context) string {
	ns, _ := ctx.Value(NamespaceKey).(string)
	return ns
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

// WithSession replaces the request session, used right after login and
// logout so the same request renders with the new state.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}
