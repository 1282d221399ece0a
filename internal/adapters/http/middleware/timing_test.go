package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sigsite/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func TestTiming_RecordsRequest(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector, 0)(okHandler(http.StatusCreated))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/admin/sync/run", nil))

	if collector.TotalRecorded() != 1 {
		t.Fatalf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "POST /admin/sync/run" {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].AvgMs < 0 {
		t.Errorf("AvgMs = %v, want >= 0", snap.SlowestPaths[0].AvgMs)
	}
}

// TestTiming_SkipsAssets verifies static assets are excluded from timing.
func TestTiming_SkipsAssets(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(okHandler(http.StatusOK))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/assets/site.css", nil))

	if collector.TotalRecorded() != 0 {
		t.Errorf("TotalRecorded = %d, want 0", collector.TotalRecorded())
	}
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestTiming_NilCollector(t *testing.T) {
	handler := Timing(nil, time.Nanosecond)(okHandler(http.StatusOK))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/members", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTiming_HandlerPanic verifies the deferred bookkeeping still runs when the handler panics.
func TestTiming_HandlerPanic(t *testing.T) {
	collector := perf.NewCollector(100)
	handler := Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/members", nil))
}

// TestTiming_PoolNoStateLeak verifies pooled writers do not carry a status code across requests.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(100)

	rr1 := httptest.NewRecorder()
	Timing(collector, 0)(okHandler(http.StatusInternalServerError)).
		ServeHTTP(rr1, httptest.NewRequest("GET", "/fail", nil))

	var seen int
	rr2 := httptest.NewRecorder()
	Timing(collector, 0)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
		seen = w.(*statusWriter).status
	})).ServeHTTP(rr2, httptest.NewRequest("GET", "/ok", nil))

	if rr1.Code != http.StatusInternalServerError {
		t.Errorf("request 1 status = %d", rr1.Code)
	}
	if seen != http.StatusOK {
		t.Errorf("request 2 captured status = %d, want 200", seen)
	}
}
