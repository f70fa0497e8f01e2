package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMintsWhenAbsent(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students", nil))

	if seen == "" {
		t.Fatal("no request id in context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Errorf("request id %q is not a UUID: %v", seen, err)
	}
	if got := rec.Header().Get(HeaderRequestID); got != seen {
		t.Errorf("response header %q, want %q", got, seen)
	}
}

func TestRequestIDKeepsClientProvidedID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r.Context()); got != "upstream-123" {
			t.Errorf("context id = %q, want upstream-123", got)
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	req.Header.Set(HeaderRequestID, "upstream-123")

	rec := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "upstream-123" {
		t.Errorf("response header %q, want upstream-123", got)
	}
}

func TestLoggingRecordsStatusAndPath(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	Logging(log, inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d did not pass through, want 404", rec.Code)
	}
	out := buf.String()
	for _, want := range []string{"status=404", "path=/students/999", "method=GET"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestGetRequestIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
