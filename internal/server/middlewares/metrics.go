package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.uber.org/zap"
)

// MetricsMiddleware records HTTP request metrics on a Prometheus registry.
type MetricsMiddleware struct {
	logger   *zap.Logger
	tele     *telemetry.Telemetry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	active   prometheus.Gauge
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry, reg prometheus.Registerer) *MetricsMiddleware {
	m := &MetricsMiddleware{
		logger: logger,
		tele:   tele,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of in-flight HTTP requests.",
		}),
	}

	reg.MustRegister(m.requests, m.duration, m.active)
	return m
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.active.Inc()

		c.Next()

		m.active.Dec()
		duration := time.Since(start).Seconds()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		status := c.Writer.Status()

		m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, route).Observe(duration)

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Float64("duration", duration))
		}
	}
}
