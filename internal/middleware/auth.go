package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"games_storefront/internal/session"

	"github.com/google/uuid"
)

// NamespaceCookie holds the id under which a browser's session is stored.
const NamespaceCookie = "sid"

type AuthMiddleware struct {
	cookies  *CookieCutter
	sessions *session.Store
	log      *slog.Logger
	maxAge   int
}

func NewAuthMiddleware(cookies *CookieCutter, sessions *session.Store, log *slog.Logger, maxAge time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		cookies:  cookies,
		sessions: sessions,
		log:      log,
		maxAge:   int(maxAge.Seconds()),
	}
}

// Resolve gives every browser a namespace and loads its session, if any,
// into the request context.
func (m *AuthMiddleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "middleware.auth.Resolve"

		ns, err := m.cookies.GetSecureCookie(r, NamespaceCookie)
		if err == nil {
			if _, perr := uuid.Parse(ns); perr != nil {
				err = perr
			}
		}
		if err != nil {
			ns = uuid.NewString()
			if err := m.cookies.SetSecureCookie(w, NamespaceCookie, ns, m.maxAge); err != nil {
				m.log.Error("failed to set namespace cookie",
					slog.String("operation", op),
					slog.String("error", err.Error()))
			}
		}

		sess, err := m.sessions.Load(r.Context(), ns)
		if err != nil {
			m.log.Error("failed to load session",
				slog.String("operation", op),
				slog.String("error", err.Error()))
		}

		ctx := context.WithValue(r.Context(), NamespaceKey, ns)
		ctx = WithSession(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireSession sends anonymous visitors to the login page and back here
// afterwards.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !SessionFromContext(r.Context()).IsAuthenticated() {
			target := "/login"
			if r.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
