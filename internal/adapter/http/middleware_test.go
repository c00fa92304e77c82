package http_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	amhttp "github.com/agentmesh/agentmesh/internal/adapter/http"
	"github.com/agentmesh/agentmesh/internal/middleware"
)

// captureLog swaps the default slog logger for a JSON handler writing
// into the returned buffer, restoring the previous logger on cleanup.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLoggerRecordsRequestID(t *testing.T) {
	buf := captureLog(t)

	// Same order as the server wiring: RequestID must enrich the
	// context before the access logger reads it.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(amhttp.Logger)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["request_id"] != "rid-123" {
		t.Fatalf("request_id in access log = %v, want rid-123", entry["request_id"])
	}
	if entry["path"] != "/health" {
		t.Fatalf("path = %v", entry["path"])
	}
	if rec.Header().Get("X-Request-ID") != "rid-123" {
		t.Fatalf("response header = %q", rec.Header().Get("X-Request-ID"))
	}
}

func TestLoggerGeneratesRequestIDWhenAbsent(t *testing.T) {
	buf := captureLog(t)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(amhttp.Logger)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	id, _ := entry["request_id"].(string)
	if id == "" {
		t.Fatal("request_id missing from access log")
	}
	if rec.Header().Get("X-Request-ID") != id {
		t.Fatalf("header id %q != logged id %q", rec.Header().Get("X-Request-ID"), id)
	}
}

func TestLoggerCapturesStatus(t *testing.T) {
	buf := captureLog(t)

	r := chi.NewRouter()
	r.Use(amhttp.Logger)
	r.Get("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log entry: %v", err)
	}
	if entry["status"] != float64(http.StatusNotFound) {
		t.Fatalf("status = %v", entry["status"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := amhttp.SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", rec.Header().Get("X-Content-Type-Options"))
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("X-Frame-Options = %q", rec.Header().Get("X-Frame-Options"))
	}
}

func TestCORSPreflight(t *testing.T) {
	h := amhttp.CORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("preflight must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/a2a", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("allow-origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
