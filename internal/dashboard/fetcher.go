package dashboard

import (
	"context"

	"github.com/vzahanych/weather-dashboard/internal/cache"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const cacheTypeReport = "weather_report"

// MetricsRecorder interface for recording metrics
type MetricsRecorder interface {
	RecordCacheHit(ctx context.Context, cacheType string)
	RecordCacheMiss(ctx context.Context, cacheType string)
	RecordArchiveCall(ctx context.Context, service string, success bool)
}

// ReportFetcher returns the report for a validated query.
type ReportFetcher interface {
	Fetch(ctx context.Context, q weather.Query) (*weather.Report, error)
}

// Fetcher serves reports from the cache and falls back to the archive
// service on a miss. Two identical queries racing on a miss both reach the
// network; the cache is only populated once a fetch completes.
type Fetcher struct {
	archive service.ArchiveService
	reports *cache.ReportCache
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func NewFetcher(archive service.ArchiveService, reports *cache.ReportCache, logger *zap.Logger, tele *telemetry.Telemetry) *Fetcher {
	return &Fetcher{
		archive: archive,
		reports: reports,
		logger:  logger,
		tele:    tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the fetcher
func (f *Fetcher) SetMetricsRecorder(metrics MetricsRecorder) {
	f.metrics = metrics
}

// Fetch never returns an error other than *weather.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, q weather.Query) (*weather.Report, error) {
	tracer := f.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "fetcher.Fetch")
	defer span.End()

	reqLogger := logger.ForContext(ctx, f.logger)

	cacheKey := q.Key()
	span.SetAttributes(
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.String("cache_key", cacheKey),
	)

	if cached, ok := f.reports.Get(cacheKey); ok {
		reqLogger.Debug("Cache hit", zap.String("cache_key", cacheKey))
		span.SetAttributes(attribute.Bool("cache_hit", true))

		if f.metrics != nil {
			f.metrics.RecordCacheHit(ctx, cacheTypeReport)
		}

		return cached, nil
	}

	span.SetAttributes(attribute.Bool("cache_hit", false))

	if f.metrics != nil {
		f.metrics.RecordCacheMiss(ctx, cacheTypeReport)
	}

	reqLogger.Info("Cache miss, fetching archive",
		zap.String("cache_key", cacheKey),
		zap.String("service", f.archive.Name()))

	report, err := f.archive.GetDailyArchive(ctx, q)
	if f.metrics != nil {
		f.metrics.RecordArchiveCall(ctx, f.archive.Name(), err == nil)
	}
	if err != nil {
		fe, ok := weather.AsFetchError(err)
		if !ok {
			fe = weather.NewUnknownError(err)
		}

		span.SetAttributes(
			attribute.Bool("success", false),
			attribute.String("error.kind", string(fe.Kind)),
		)
		reqLogger.Error("Failed to fetch archive",
			zap.Error(fe),
			zap.NamedError("cause", fe.Err),
			zap.String("kind", string(fe.Kind)),
			zap.String("cache_key", cacheKey))
		return nil, fe
	}

	f.reports.Set(cacheKey, report)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days", len(report.Data)),
	)

	reqLogger.Info("Archive fetched and cached",
		zap.String("cache_key", cacheKey),
		zap.Int("days", len(report.Data)))

	return report, nil
}

func (f *Fetcher) ClearCache() {
	f.reports.Clear()
}

func (f *Fetcher) GetCacheStats() map[string]interface{} {
	stats := f.reports.Stats()
	stats["archive_service"] = f.archive.Name()
	return stats
}

func (f *Fetcher) CacheLen() int {
	return f.reports.Len()
}
