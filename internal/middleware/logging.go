package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// RequestLogger logs one line per request with the status, size and
// duration captured from the wrapped writer.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(next, w, r)

			level := slog.LevelInfo
			if m.Code >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			log.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("uri", r.URL.RequestURI()),
				slog.Int("status", m.Code),
				slog.Int64("size", m.Written),
				slog.Duration("duration", m.Duration),
				slog.String("ip", ClientIP(r)),
				slog.String("user_agent", r.UserAgent()),
				slog.String("request_id", RequestIDFromContext(r.Context())),
			)
		})
	}
}

// ClientIP is the host of the socket address. Forwarded headers only count
// once a trusted proxy setup has rewritten RemoteAddr from them.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
