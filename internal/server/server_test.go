package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rajeshuchil/contesthub/internal/config"
	"github.com/rajeshuchil/contesthub/internal/domain"
	"github.com/rajeshuchil/contesthub/internal/logging"
	"github.com/rajeshuchil/contesthub/internal/metrics"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:          "0",
		PollInterval:  time.Minute,
		CacheTTL:      time.Minute,
		SourceTimeout: time.Second,
		Sources:       []string{"fixture"},
		History: config.HistoryConfig{
			BasePath:    t.TempDir(),
			Retention:   24 * time.Hour,
			Compression: "none",
		},
		RateLimit: config.RateLimitConfig{RPS: 100, Burst: 100},
	}
}

func stubMetricsSetup(t *testing.T) {
	t.Helper()
	orig := metricsSetup
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), nil, nil, nil
	}
	t.Cleanup(func() { metricsSetup = orig })
}

func TestServerHealthEndpoint(t *testing.T) {
	stubMetricsSetup(t)
	logger := logging.NewLogger(logging.Config{Level: "error"})

	srv := New(testConfig(t), logger)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestServerReadyBeforeFirstPoll(t *testing.T) {
	stubMetricsSetup(t)
	logger := logging.NewLogger(logging.Config{Level: "error"})

	srv := New(testConfig(t), logger)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /ready status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestBuildHistoryRoundtrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Compression = "zstd"
	logger := logging.NewLogger(logging.Config{Level: "error"})

	writer, store := buildHistory(cfg, logger)
	snap, err := writer.Write([]domain.Contest{{ID: "codeforces-101", Platform: "Codeforces", Name: "Round 101"}})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := store.Load(snap.ID)
	if err != nil {
		t.Fatalf("Load(%q) error = %v", snap.ID, err)
	}
	if loaded.ContestCount != 1 || len(loaded.Contests) != 1 || loaded.Contests[0].ID != "codeforces-101" {
		t.Fatalf("Load() = %+v, want the written contest", loaded)
	}
}

func TestBuildMetricsFallsBackOnSetupError(t *testing.T) {
	orig := metricsSetup
	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, context.DeadlineExceeded
	}
	t.Cleanup(func() { metricsSetup = orig })

	logger := logging.NewLogger(logging.Config{Level: "error"})
	rec, srv, stop := buildMetrics(testConfig(t), logger, nil)
	if rec == nil {
		t.Fatal("recorder = nil, want fallback recorder")
	}
	if srv != nil {
		t.Error("metrics server != nil after setup failure")
	}
	if stop != nil {
		t.Error("shutdown func != nil after setup failure")
	}
}
