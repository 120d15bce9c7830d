package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	c := New("financecontroller")

	c.RecordHTTP("/api/dashboard", http.MethodGet, 200, 15*time.Millisecond)
	c.RecordHTTP("/api/dashboard", http.MethodGet, 200, 5*time.Millisecond)
	c.RecordRateLimited()
	c.RecordSummary("resume", "empty")
	c.RecordRejected(3)
	c.RecordRejected(0)
	c.RecordRegistration("negative")

	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/dashboard", "GET", "200")); got != 2 {
		t.Fatalf("http_requests_total = %v", got)
	}
	if got := testutil.ToFloat64(c.rateLimited); got != 1 {
		t.Fatalf("rate_limit_hits_total = %v", got)
	}
	if got := testutil.ToFloat64(c.summaries.WithLabelValues("resume", "empty")); got != 1 {
		t.Fatalf("summaries_total = %v", got)
	}
	if got := testutil.ToFloat64(c.rejected); got != 3 {
		t.Fatalf("rejected_records_total = %v", got)
	}
	if got := testutil.ToFloat64(c.registrations.WithLabelValues("negative")); got != 1 {
		t.Fatalf("transactions_registered_total = %v", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.RecordHTTP("/", "GET", 200, time.Second)
	c.RecordRateLimited()
	c.SetRateLimitClients(3)
	c.RecordSummary("dashboard", "ok")
	c.RecordRejected(1)
	c.RecordRegistration("positive")
}

func TestHandlerExposesNamespace(t *testing.T) {
	c := New("financecontroller")
	c.RecordSummary("dashboard", "ok")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(string(body), "financecontroller_summaries_total") {
		t.Fatalf("metrics output missing namespaced counter")
	}
}
