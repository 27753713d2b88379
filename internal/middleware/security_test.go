package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc", seen)
}

func TestSecureHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecureHeaders(ok()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestCSRF(t *testing.T) {
	var token string
	h := CSRF(false, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = CSRFTokenFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, token, 64)
	cookie := w.Result().Cookies()[0]
	assert.Equal(t, CSRFCookie, cookie.Name)

	post := func(value string) *httptest.ResponseRecorder {
		form := url.Values{CSRFField: {value}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, post(token).Code)
	assert.Equal(t, http.StatusForbidden, post("wrong").Code)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2, time.Minute, discardLogger())
	h := l.Limit(ok())

	request := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("1.1.1.1:1000"))
	assert.Equal(t, http.StatusOK, request("1.1.1.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, request("1.1.1.1:1002"))
	assert.Equal(t, http.StatusOK, request("2.2.2.2:1000"))

	now := time.Now()
	l.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.Equal(t, 2, l.sweep())
}

func TestRateLimiter_ForwardedHeaders(t *testing.T) {
	send := func(h http.Handler, n int) int {
		allowed := 0
		for i := 0; i < n; i++ {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = "192.0.2.1:4000"
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code == http.StatusOK {
				allowed++
			}
		}
		return allowed
	}

	t.Run("ignored by default", func(t *testing.T) {
		l := NewRateLimiter(1, 1, time.Minute, discardLogger())
		assert.Equal(t, 1, send(l.Limit(ok()), 20))
	})

	t.Run("honoured behind a trusted proxy", func(t *testing.T) {
		l := NewRateLimiter(1, 1, time.Minute, discardLogger())
		assert.Equal(t, 20, send(chimw.RealIP(l.Limit(ok())), 20))
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Real-Ip", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.RemoteAddr = "192.0.2.1"
	assert.Equal(t, "192.0.2.1", ClientIP(req))
}
