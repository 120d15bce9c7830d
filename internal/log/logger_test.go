package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLoggerAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: ComponentSummary, Handler: NewHandler(&buf, slog.LevelDebug, "json")})

	l.Info("hello", FieldUserID, "42")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["component"] != ComponentSummary || rec[FieldUserID] != "42" || rec["msg"] != "hello" {
		t.Fatalf("unexpected record %v", rec)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Component: "x", Handler: NewHandler(&buf, slog.LevelWarn, "text")})
	l.Info("dropped")
	l.Warn("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "kept") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMiddlewareStoresLogger(t *testing.T) {
	l := New(Config{Component: ComponentHTTP, Handler: NewHandler(&bytes.Buffer{}, slog.LevelInfo, "text")})

	var got *Logger
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if got == nil || got.Component() != ComponentHTTP {
		t.Fatalf("expected http component logger, got %+v", got)
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatalf("expected fallback logger")
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	f := NewFields().WithUser("7").WithMonth(2023, 5).WithError(nil)
	if f[FieldUserID] != "7" || f[FieldYear] != 2023 || f[FieldMonth] != 5 {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error must not be recorded")
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Fatalf("ToSlice length mismatch")
	}
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("bad record %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestStructuredLoggerHTTPLevels(t *testing.T) {
	cases := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusServiceUnavailable, "ERROR"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		sl := NewStructuredLogger(New(Config{Component: ComponentHTTP, Handler: NewHandler(&buf, slog.LevelDebug, "json")}))
		r := httptest.NewRequest(http.MethodGet, "/api/resume?year=2023", nil)

		sl.LogHTTPStart(context.Background(), r, "req_1", "10.0.0.1")
		sl.LogHTTPEnd(context.Background(), r, "req_1", "GET /api/resume", tc.status, 1500*time.Microsecond, "10.0.0.1")

		recs := decodeRecords(t, &buf)
		if len(recs) != 2 {
			t.Fatalf("expected 2 records, got %d", len(recs))
		}
		start, end := recs[0], recs[1]
		if start["msg"] != "HTTP request started" || start[FieldRequestID] != "req_1" || start[FieldQuery] != "year=2023" {
			t.Fatalf("start record %v", start)
		}
		if end["level"] != tc.level || end[FieldRoute] != "GET /api/resume" || end[FieldStatusCode] != float64(tc.status) {
			t.Fatalf("status %d: end record %v", tc.status, end)
		}
		if end[FieldClientIP] != "10.0.0.1" || end[FieldDurationHuman] != "1.5ms" {
			t.Fatalf("end record %v", end)
		}
	}
}

func TestStructuredLoggerLogError(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(New(Config{Component: ComponentHTTP, Handler: NewHandler(&buf, slog.LevelDebug, "json")}))

	sl.LogError(context.Background(), "Resume read failed", errors.New("disk"), ComponentSummary, OpSummary, NewFields().WithMonth(2023, 5))
	sl.LogError(context.Background(), "Dashboard read failed", errors.New("disk"), ComponentSummary, OpRead, nil)

	recs := decodeRecords(t, &buf)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0]["level"] != "ERROR" || recs[0][FieldError] != "disk" || recs[0][FieldOperation] != OpSummary || recs[0][FieldMonth] != float64(5) {
		t.Fatalf("unexpected record %v", recs[0])
	}
	if recs[1][FieldOperation] != OpRead || recs[1][FieldComponent] != ComponentSummary {
		t.Fatalf("unexpected record %v", recs[1])
	}
}
