package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAnalysis("fresh", 2*time.Second)
	c.RecordCacheLookup("hit")
	c.RecordCacheLookup("hit")
	c.RecordFetch("youtube", "ok", 300*time.Millisecond)
	c.RecordFetch("instagram", "error", time.Second)
	c.RecordPersona("generated")
	c.RecordPersist("saved")
	c.RecordHTTPRequest(http.MethodPost, "/api/analyze", 200, time.Second)

	if got := testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.fetches.WithLabelValues("instagram", "error")); got != 1 {
		t.Errorf("instagram errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.analyses.WithLabelValues("fresh")); got != 1 {
		t.Errorf("fresh analyses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("POST", "/api/analyze", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(c.fetchLatency); n != 2 {
		t.Errorf("fetch latency series = %d, want 2", n)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordPersist("skipped")

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), `zenith_persist_total{status="skipped"} 1`) {
		t.Fatalf("metric missing from output:\n%s", body)
	}
}

func TestNewCollectorPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Fatal("expected duplicate registration to panic")
		}
	}()
	NewCollector(reg)
}
