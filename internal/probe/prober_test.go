package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/psantana5/tictoc/pkg/logging"
)

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.ERROR, false)
}

func newTestProber(targets []Target) (*Prober, *Metrics) {
	m := NewMetrics()
	p := NewProber(targets, m, testLogger())
	// keep test runtime flat when a target is down
	p.retry.MaxRetries = 0
	p.retry.InitialBackoff = time.Millisecond
	return p, m
}

func TestProbeAllRecordsSample(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, _ := newTestProber([]Target{{Name: "local", URL: srv.URL}})
	p.ProbeAll(context.Background())

	samples := p.LastSamples()
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	s := samples[0]
	if !s.OK {
		t.Errorf("sample not OK: %s", s.Error)
	}
	if s.Target != "local" {
		t.Errorf("sample target = %q, want local", s.Target)
	}
	if s.Elapsed.Nanos() < 0 {
		t.Errorf("negative elapsed %v", s.Elapsed)
	}
	if s.Seconds != s.Elapsed.Seconds() {
		t.Errorf("seconds %v does not match elapsed %v", s.Seconds, s.Elapsed)
	}
}

func TestProbeFailureIsRecorded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, _ := newTestProber([]Target{{Name: "broken", URL: srv.URL}})
	p.ProbeAll(context.Background())

	samples := p.LastSamples()
	if len(samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(samples))
	}
	if samples[0].OK {
		t.Error("sample should not be OK")
	}
	if samples[0].Error == "" {
		t.Error("failed sample should carry an error")
	}
}

func TestMetricsDump(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, m := newTestProber([]Target{{Name: "local", URL: srv.URL}})
	p.ProbeAll(context.Background())

	var buf bytes.Buffer
	if err := m.Dump(&buf); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "tictoc_probe_duration_seconds") {
		t.Errorf("dump missing duration metric:\n%s", out)
	}
	if !strings.Contains(out, `target="local"`) {
		t.Errorf("dump missing target label:\n%s", out)
	}
}

func TestTimingsEndpoint(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	p, m := newTestProber([]Target{{Name: "backend", URL: backend.URL}})
	p.ProbeAll(context.Background())

	srv := NewServer("127.0.0.1:0", p, m, testLogger())
	req := httptest.NewRequest("GET", "/api/v1/timings", nil)
	rec := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp timingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if resp.Count != 1 || len(resp.Samples) != 1 {
		t.Fatalf("count = %d, samples = %d, want 1/1", resp.Count, len(resp.Samples))
	}
	if resp.Samples[0].Target != "backend" {
		t.Errorf("sample target = %q, want backend", resp.Samples[0].Target)
	}
}

func TestHealthzEndpoint(t *testing.T) {
	p, m := newTestProber(nil)
	srv := NewServer("127.0.0.1:0", p, m, testLogger())

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("healthz body = %q", rec.Body.String())
	}
}
