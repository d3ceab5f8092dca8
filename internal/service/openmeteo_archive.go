package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const archiveEndpoint = "/archive"

type OpenMeteoArchiveService struct {
	baseURL  string
	timezone string
	client   *resty.Client
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

type archiveResponse struct {
	Daily struct {
		Time                    []string   `json:"time"`
		Temperature2mMax        []*float64 `json:"temperature_2m_max"`
		Temperature2mMin        []*float64 `json:"temperature_2m_min"`
		Temperature2mMean       []*float64 `json:"temperature_2m_mean"`
		ApparentTemperatureMax  []*float64 `json:"apparent_temperature_max"`
		ApparentTemperatureMin  []*float64 `json:"apparent_temperature_min"`
		ApparentTemperatureMean []*float64 `json:"apparent_temperature_mean"`
	} `json:"daily"`
	DailyUnits map[string]string `json:"daily_units"`
}

func NewOpenMeteoArchiveService(cfg config.ArchiveConfig, logger *zap.Logger, tele *telemetry.Telemetry) *OpenMeteoArchiveService {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	// Retries stay disabled: each fetch is a single attempt.
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	}

	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "auto"
	}

	return &OpenMeteoArchiveService{
		baseURL:  baseURL,
		timezone: timezone,
		client:   client,
		logger:   logger,
		tele:     tele,
	}
}

func (s *OpenMeteoArchiveService) Name() string {
	return "open-meteo-archive"
}

func (s *OpenMeteoArchiveService) GetDailyArchive(ctx context.Context, q weather.Query) (*weather.Report, error) {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo-archive.GetDailyArchive")
	defer span.End()

	span.SetAttributes(
		attribute.Float64("lat", q.Latitude),
		attribute.Float64("lon", q.Longitude),
		attribute.String("start_date", q.StartDate),
		attribute.String("end_date", q.EndDate),
	)

	if err := validateBaseURL(s.baseURL); err != nil {
		return nil, s.fail(span, weather.NewUnknownError(err))
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(span, weather.NewUnknownError(err))
	}

	s.logger.Debug("Fetching daily archive",
		zap.Float64("lat", q.Latitude),
		zap.Float64("lon", q.Longitude),
		zap.String("start_date", q.StartDate),
		zap.String("end_date", q.EndDate))

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(s.queryParams(q)).
		Get(archiveEndpoint)
	if err != nil {
		s.logger.Warn("Archive request got no response", zap.Error(err))
		return nil, s.fail(span, weather.NewNoResponseError(err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		s.logger.Warn("Archive request failed",
			zap.Int("status", resp.StatusCode()),
			zap.Duration("latency", resp.Time()))
		return nil, s.fail(span, weather.NewServerError(resp.StatusCode()))
	}

	var payload archiveResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, s.fail(span, weather.NewUnknownError(fmt.Errorf("decode archive response: %w", err)))
	}

	report, err := toReport(payload)
	if err != nil {
		return nil, s.fail(span, weather.NewUnknownError(err))
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("days", len(report.Data)),
	)

	s.logger.Debug("Daily archive fetched",
		zap.Int("days", len(report.Data)),
		zap.Duration("latency", resp.Time()))

	return report, nil
}

func (s *OpenMeteoArchiveService) queryParams(q weather.Query) map[string]string {
	return map[string]string{
		"latitude":   strconv.FormatFloat(q.Latitude, 'f', -1, 64),
		"longitude":  strconv.FormatFloat(q.Longitude, 'f', -1, 64),
		"start_date": q.StartDate,
		"end_date":   q.EndDate,
		"daily":      strings.Join(weather.DailyMetrics, ","),
		"timezone":   s.timezone,
	}
}

func (s *OpenMeteoArchiveService) fail(span trace.Span, fe *weather.FetchError) *weather.FetchError {
	span.SetAttributes(
		attribute.Bool("success", false),
		attribute.String("error.kind", string(fe.Kind)),
	)
	span.RecordError(fe)
	return fe
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid archive url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid archive url %q: scheme and host are required", raw)
	}
	return nil
}

// toReport zips the columnar daily arrays into rows, keeping provider order.
// Null values stay nil so days without data are not reported as 0.
func toReport(payload archiveResponse) (*weather.Report, error) {
	d := payload.Daily
	n := len(d.Time)

	columns := map[string][]*float64{
		weather.MetricTemperatureMax:          d.Temperature2mMax,
		weather.MetricTemperatureMin:          d.Temperature2mMin,
		weather.MetricTemperatureMean:         d.Temperature2mMean,
		weather.MetricApparentTemperatureMax:  d.ApparentTemperatureMax,
		weather.MetricApparentTemperatureMin:  d.ApparentTemperatureMin,
		weather.MetricApparentTemperatureMean: d.ApparentTemperatureMean,
	}
	for _, metric := range weather.DailyMetrics {
		if got := len(columns[metric]); got != n {
			return nil, fmt.Errorf("daily arrays misaligned: %s has %d values, time has %d", metric, got, n)
		}
	}

	records := make([]weather.DailyRecord, n)
	for i, day := range d.Time {
		records[i] = weather.DailyRecord{
			Time:             day,
			ApparentTempMax:  d.ApparentTemperatureMax[i],
			ApparentTempMin:  d.ApparentTemperatureMin[i],
			ApparentTempMean: d.ApparentTemperatureMean[i],
			Temp2MMax:        d.Temperature2mMax[i],
			Temp2MMin:        d.Temperature2mMin[i],
			Temp2MMean:       d.Temperature2mMean[i],
		}
	}

	units := make(map[string]string, len(payload.DailyUnits))
	for k, v := range payload.DailyUnits {
		units[k] = v
	}

	return &weather.Report{Data: records, Units: units}, nil
}
