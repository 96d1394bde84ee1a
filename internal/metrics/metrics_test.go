package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordCycle(t *testing.T) {
	before := testutil.ToFloat64(refreshCycles.WithLabelValues("rate_limited"))

	RecordCycle(true, 3*time.Second, 120*time.Second)

	if got := testutil.ToFloat64(refreshCycles.WithLabelValues("rate_limited")); got != before+1 {
		t.Errorf("rate_limited cycles = %v, want %v", got, before+1)
	}
	if got := testutil.ToFloat64(refreshNextDelay); got != 120 {
		t.Errorf("next delay = %v, want 120", got)
	}

	RecordCycle(false, time.Second, 60*time.Second)
	if got := testutil.ToFloat64(refreshNextDelay); got != 60 {
		t.Errorf("next delay = %v, want 60", got)
	}
}

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(fetches.WithLabelValues("metrics-test", "ok"))
	RecordFetch("metrics-test", "ok", 2*time.Second)
	if got := testutil.ToFloat64(fetches.WithLabelValues("metrics-test", "ok")); got != before+1 {
		t.Errorf("fetches = %v, want %v", got, before+1)
	}
}

func TestRecordSnapshotUpdate(t *testing.T) {
	at := time.Unix(1705321845, 0)
	RecordSnapshotUpdate("metrics-test", at)
	if got := testutil.ToFloat64(snapshotUpdated.WithLabelValues("metrics-test")); got != 1705321845 {
		t.Errorf("updated timestamp = %v, want 1705321845", got)
	}
}

func TestInstrumentHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/assets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/assets/{id}", "503"))

	req := httptest.NewRequest(http.MethodGet, "/api/assets/bitcoin", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/assets/{id}", "503")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestHandler(t *testing.T) {
	RecordCycle(false, time.Second, 60*time.Second)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pricetracker_refresh_next_delay_seconds") {
		t.Error("exposition should include pricetracker_refresh_next_delay_seconds")
	}
}
