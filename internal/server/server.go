package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rajeshuchil/contesthub/internal/aggregate"
	"github.com/rajeshuchil/contesthub/internal/app/contests"
	"github.com/rajeshuchil/contesthub/internal/cache"
	"github.com/rajeshuchil/contesthub/internal/config"
	"github.com/rajeshuchil/contesthub/internal/history"
	httpserver "github.com/rajeshuchil/contesthub/internal/http"
	"github.com/rajeshuchil/contesthub/internal/http/handlers"
	"github.com/rajeshuchil/contesthub/internal/http/middleware"
	"github.com/rajeshuchil/contesthub/internal/logging"
	"github.com/rajeshuchil/contesthub/internal/metrics"
	"github.com/rajeshuchil/contesthub/internal/poller"
	"github.com/rajeshuchil/contesthub/internal/webhooks"
)

var metricsSetup = metrics.Setup

// Server owns the composed application: sources, cache, webhook registry,
// history archive, refresh loop, and the HTTP front ends.
type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	contestSvc    *contests.Service
	webhookReg    *webhooks.Registry
	historyWriter *history.Writer
	httpServer    httpServer
	metricsServer httpServer
	refresher     Refresher
	metricsStop   func(context.Context) error
}

// New composes a server from configuration.
func New(cfg config.Config, logger *slog.Logger) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)
	return newServerWithMetrics(cfg, logger, recorder, metricsSrv, metricsShutdown)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, metricsSrv httpServer, metricsShutdown func(context.Context) error) *Server {
	registry := newRegistry()
	aggregator := aggregate.NewAggregator(buildAdapters(cfg, logger), registry, cfg.SourceTimeout, logger, recorder)
	fetcher := &aggregate.PrimaryThenFallback{
		Primary:  buildPrimary(cfg, logger),
		Registry: registry,
		Fallback: aggregator,
		Timeout:  cfg.SourceTimeout,
		Logger:   logger,
		Metrics:  recorder,
	}

	contestCache := cache.NewContestCache(fetcher, cache.NewFreecacheStore(cache.DefaultStoreSize), cfg.CacheTTL, logger, recorder)
	svc := contests.NewService(contestCache)

	writer, histStore := buildHistory(cfg, logger)

	webhookReg := webhooks.NewRegistry()
	dispatcher := webhooks.NewDispatcher(webhookReg, nil, logger, recorder)

	refresher := poller.New(contestCache, dispatcher, writer, logger, recorder, cfg.PollInterval)

	httpSrv := buildHTTPServer(cfg, svc, webhookReg, histStore, logger, recorder, refresher)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		contestSvc:    svc,
		webhookReg:    webhookReg,
		historyWriter: writer,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		refresher:     refresher,
		metricsStop:   metricsShutdown,
	}
}

// newServerWithDeps is used by tests to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *contests.Service, httpSrv httpServer, refresher Refresher) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		contestSvc: svc,
		httpServer: httpSrv,
		refresher:  refresher,
	}
}

func buildHistory(cfg config.Config, logger *slog.Logger) (*history.Writer, history.Store) {
	var compressor history.Compressor = history.NopCompressor{}
	if cfg.History.Compression == "zstd" {
		zc, err := history.NewZstdCompressor()
		if err != nil {
			if logger != nil {
				logger.Warn("zstd unavailable, storing snapshots uncompressed", "err", err)
			}
		} else {
			compressor = zc
		}
	}
	writer := history.NewWriter(cfg.History.BasePath, cfg.History.Retention, compressor)
	store := history.NewFSStore(cfg.History.BasePath, compressor)
	return writer, store
}

func buildHTTPServer(cfg config.Config, svc *contests.Service, webhookReg *webhooks.Registry, histStore history.Store, logger *slog.Logger, recorder *metrics.Recorder, refresher Refresher) httpServer {
	var statusFn func() poller.Status
	if refresher != nil {
		statusFn = refresher.Status
	}

	contest := handlers.NewHandler(svc, logger, statusFn)
	webhook := handlers.NewWebhookHandler(webhookReg, logger)
	hist := handlers.NewHistoryHandler(histStore, logger)
	admin := handlers.NewAdminHandler(svc, cfg.AdminToken, logger)
	router := httpserver.NewRouter(contest, webhook, hist, admin)

	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	wrapped := middleware.Logging(logger, recorder, limiter.Wrap(router))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      wrapped,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the refresh loop and HTTP servers, then waits for context
// cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.refresher.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.refresher != nil {
		if err := s.refresher.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop refresher", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
