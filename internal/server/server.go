package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/handlers"
	"github.com/vzahanych/weather-dashboard/internal/server/middlewares"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.uber.org/zap"
)

type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	server    *http.Server
	dashboard *dashboard.Dashboard
	fetcher   *dashboard.Fetcher
	metrics   *handlers.MetricsHandler
	logger    *zap.Logger
	tele      *telemetry.Telemetry
	ready     atomic.Bool
}

func NewServer(cfg *config.Config, dash *dashboard.Dashboard, fetcher *dashboard.Fetcher, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele, registry)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	metrics := handlers.NewMetricsHandler(logger, registry)
	metrics.RegisterCacheSize(fetcher.CacheLen)
	fetcher.SetMetricsRecorder(metrics)

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		dashboard: dash,
		fetcher:   fetcher,
		metrics:   metrics,
		logger:    logger,
		tele:      tele,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", handlers.NewLandingHandler(s.cfg.Version).Landing)

	dash := handlers.NewDashboardHandler(s.dashboard, s.logger)
	api := s.engine.Group("/api")
	{
		api.GET("/dashboard", dash.GetSnapshot)
		api.POST("/dashboard/query", dash.SubmitQuery)
		api.PUT("/dashboard/page", dash.SetPage)
		api.PUT("/dashboard/rows-per-page", dash.SetRowsPerPage)
		api.POST("/dashboard/clear", dash.Clear)
		api.GET("/dashboard/rows", dash.GetRows)

		api.GET("/archive", handlers.NewArchiveHandler(s.fetcher, s.dashboard.AllowedRowsPerPage(), s.logger).GetArchive)

		cache := handlers.NewCacheHandler(s.fetcher, s.logger)
		api.GET("/cache", cache.Stats)
		api.DELETE("/cache", cache.Flush)
	}

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, s.ready.Load)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

// Handler exposes the routed engine, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// MarkReady flips the readiness check once startup work is done.
func (s *Server) MarkReady() {
	s.ready.Store(true)
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
