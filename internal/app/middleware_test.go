package app

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWithRequestLogging_TagsAndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	rr := httptest.NewRecorder()
	WithRequestLogging(inner, log).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "http.request" {
		t.Fatalf("msg %v", entry["msg"])
	}
	if entry["path"] != "/teapot" {
		t.Fatalf("path %v", entry["path"])
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Fatalf("status %v", entry["status"])
	}
	if entry["class"] != "4xx" || entry["result"] != "client_error" {
		t.Fatalf("class/result %v/%v", entry["class"], entry["result"])
	}
	if entry["bytes"] != float64(len("short and stout")) {
		t.Fatalf("bytes %v", entry["bytes"])
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level %v", entry["level"])
	}
}

func TestWithRequestLogging_DefaultStatusIs200(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("implicit 200"))
	})

	rr := httptest.NewRecorder()
	WithRequestLogging(inner, log).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry["status"] != float64(http.StatusOK) || entry["result"] != "success" {
		t.Fatalf("status/result %v/%v", entry["status"], entry["result"])
	}
}

func TestRequestLogMeta(t *testing.T) {
	cases := []struct {
		status int
		level  slog.Level
		result string
	}{
		{200, slog.LevelInfo, "success"},
		{303, slog.LevelInfo, "redirect"},
		{404, slog.LevelWarn, "client_error"},
		{500, slog.LevelError, "server_error"},
	}
	for _, tc := range cases {
		level, result := requestLogMeta(tc.status)
		if level != tc.level || result != tc.result {
			t.Fatalf("%d: got (%v, %q), want (%v, %q)", tc.status, level, result, tc.level, tc.result)
		}
	}
}

func TestNewRequestID_Unique(t *testing.T) {
	now := time.Now()
	a := newRequestID(now)
	b := newRequestID(now)
	if a == "" || a == "unknown" {
		t.Fatalf("bad id %q", a)
	}
	if a == b {
		t.Fatalf("ids must differ: %q", a)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	ctx := context.Background()

	log := NewLogger("warn")
	if log.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("info must be disabled at warn level")
	}
	if !log.Enabled(ctx, slog.LevelWarn) {
		t.Fatalf("warn must be enabled at warn level")
	}

	// Unknown levels fall back to info.
	log = NewLogger("chatty")
	if !log.Enabled(ctx, slog.LevelInfo) {
		t.Fatalf("unknown level must default to info")
	}
}
