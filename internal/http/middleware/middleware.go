// Package middleware holds the handlers that wrap the whole router:
// request-ID tagging and access logging.
//
// net/http middleware is just a function that takes an http.Handler and
// returns another http.Handler which does some work before and/or after
// calling the wrapped one. Applied in main as:
//
//	handler := middleware.RequestID(middleware.Logging(log, router))
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ctxKey is an unexported type for context keys defined in this package.
// Using a private type prevents collisions with keys defined elsewhere.
type ctxKey string

const requestIDKey ctxKey = "request_id"

// HeaderRequestID is the header a caller may use to supply its own
// request ID; we echo it back on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID attaches a unique ID to every request. If the client already
// sent one (a proxy or another service tracing its call) we keep it;
// otherwise we mint a fresh UUID. The ID travels in the request context
// and is echoed in the response header so client and server logs can be
// correlated.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		w.Header().Set(HeaderRequestID, reqID)

		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request ID stored by RequestID, or "" if the
// middleware was not applied.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logging writes one structured access-log line per request: method,
// path, response status, duration, and the request ID.
func Logging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// ResponseWriter has no way to read back the status a handler
		// wrote, so we interpose a thin recorder.
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info("request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", GetRequestID(r.Context())),
		)
	})
}

// statusRecorder captures the status code on its way through.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
