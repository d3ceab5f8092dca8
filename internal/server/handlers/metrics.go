package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsHandler owns the application collectors (cache, archive calls)
// and serves the whole registry in Prometheus text format.
type MetricsHandler struct {
	logger        *zap.Logger
	registry      *prometheus.Registry
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	archiveCalls  *prometheus.CounterVec
	archiveErrors *prometheus.CounterVec
	handler       http.Handler
}

func NewMetricsHandler(logger *zap.Logger, registry *prometheus.Registry) *MetricsHandler {
	h := &MetricsHandler{
		logger:   logger,
		registry: registry,
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_hits_total",
			Help: "Total cache hits.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_cache_misses_total",
			Help: "Total cache misses.",
		}, []string{"cache"}),
		archiveCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "archive_calls_total",
			Help: "Total archive provider calls.",
		}, []string{"service"}),
		archiveErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "archive_errors_total",
			Help: "Total archive provider errors.",
		}, []string{"service"}),
	}

	registry.MustRegister(h.cacheHits, h.cacheMisses, h.archiveCalls, h.archiveErrors)
	h.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(logger),
	})
	return h
}

// RegisterCacheSize exposes the number of cached reports as a gauge.
func (h *MetricsHandler) RegisterCacheSize(size func() int) {
	h.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "dashboard_cache_entries",
		Help: "Reports currently cached.",
	}, func() float64 {
		return float64(size())
	}))
}

// RecordCacheHit records a cache hit metric
func (h *MetricsHandler) RecordCacheHit(ctx context.Context, cacheType string) {
	h.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss metric
func (h *MetricsHandler) RecordCacheMiss(ctx context.Context, cacheType string) {
	h.cacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordArchiveCall records a call to the archive provider
func (h *MetricsHandler) RecordArchiveCall(ctx context.Context, service string, success bool) {
	h.archiveCalls.WithLabelValues(service).Inc()
	if !success {
		h.archiveErrors.WithLabelValues(service).Inc()
	}
}

// ServeMetrics exposes the registry in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.handler.ServeHTTP(c.Writer, c.Request)
}
