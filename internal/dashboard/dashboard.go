package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/validation"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusFailed  Status = "failed"
)

const defaultRowsPerPage = 10

var (
	ErrInvalidPage        = errors.New("page must be 1 or greater")
	ErrInvalidRowsPerPage = errors.New("rows per page is not one of the allowed values")
	// ErrSuperseded is returned by Submit when a newer submission started
	// before this one's fetch completed. Its result was discarded.
	ErrSuperseded = errors.New("submission superseded by a newer one")
)

// ErrorState is the fetch error as exposed to clients.
type ErrorState struct {
	Kind       weather.FetchErrorKind `json:"kind"`
	StatusCode int                    `json:"status_code,omitempty"`
	Message    string                 `json:"message"`
}

// Snapshot is a read-only copy of the dashboard state.
type Snapshot struct {
	Status           Status               `json:"status"`
	Report           *weather.Report      `json:"report"`
	Loading          bool                 `json:"loading"`
	Error            *ErrorState          `json:"error"`
	CurrentPage      int                  `json:"current_page"`
	RowsPerPage      int                  `json:"rows_per_page"`
	Form             validation.FormInput `json:"form"`
	ValidationErrors map[string]string    `json:"validation_errors,omitempty"`
}

// Dashboard holds the latest report, the fetch lifecycle and the pagination
// cursor for one dashboard session.
type Dashboard struct {
	mu sync.RWMutex

	fetcher  ReportFetcher
	validate func(validation.FormInput) (weather.Query, error)
	logger   *zap.Logger
	tele     *telemetry.Telemetry

	defaultForm        validation.FormInput
	allowedRowsPerPage []int

	status           Status
	report           *weather.Report
	loading          bool
	fetchErr         *weather.FetchError
	currentPage      int
	rowsPerPage      int
	form             validation.FormInput
	validationErrors map[string]string

	// seq identifies the latest accepted submission.
	seq uint64
}

func New(fetcher ReportFetcher, cfg config.DashboardConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Dashboard {
	allowed := cfg.AllowedRowsPerPage
	if len(allowed) == 0 {
		allowed = []int{10, 20, 50}
	}

	rows := cfg.RowsPerPage
	if !slices.Contains(allowed, rows) {
		rows = defaultRowsPerPage
	}

	form := validation.FormInput{
		Latitude:  cfg.DefaultLatitude,
		Longitude: cfg.DefaultLongitude,
		StartDate: cfg.DefaultStartDate,
		EndDate:   cfg.DefaultEndDate,
	}

	return &Dashboard{
		fetcher:            fetcher,
		validate:           validation.Validate,
		logger:             logger,
		tele:               tele,
		defaultForm:        form,
		allowedRowsPerPage: append([]int(nil), allowed...),
		status:             StatusIdle,
		currentPage:        1,
		rowsPerPage:        rows,
		form:               form,
	}
}

// Bootstrap submits the default form once.
func (d *Dashboard) Bootstrap(ctx context.Context) (Snapshot, error) {
	return d.Submit(ctx, d.defaultForm)
}

// Submit validates the form and, if it is valid, fetches the report.
// Validation failures leave the fetch state untouched. Fetch failures keep
// the previous report.
func (d *Dashboard) Submit(ctx context.Context, in validation.FormInput) (Snapshot, error) {
	tracer := d.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "dashboard.Submit")
	defer span.End()

	reqLogger := logger.ForContext(ctx, d.logger)

	q, err := d.validate(in)

	d.mu.Lock()
	d.form = in
	if err != nil {
		d.validationErrors = nil
		var verr *validation.Error
		if errors.As(err, &verr) {
			d.validationErrors = copyFields(verr.Fields)
		}
		snap := d.snapshotLocked()
		d.mu.Unlock()

		span.SetAttributes(attribute.Bool("validation_failed", true))
		reqLogger.Info("Dashboard submission rejected", zap.Error(err))
		return snap, err
	}

	d.validationErrors = nil
	d.status = StatusLoading
	d.loading = true
	d.fetchErr = nil
	d.seq++
	seq := d.seq
	d.mu.Unlock()

	span.SetAttributes(
		attribute.String("cache_key", q.Key()),
		attribute.Int64("submission", int64(seq)),
	)

	// The fetch outlives the caller: a client that goes away must not abort
	// the shared dashboard load. Trace and request-ID values are kept.
	report, err := d.fetcher.Fetch(context.WithoutCancel(ctx), q)

	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		reqLogger.Info("Discarding superseded dashboard response",
			zap.Uint64("submission", seq),
			zap.Uint64("latest", d.seq))
		span.SetAttributes(attribute.Bool("superseded", true))
		return d.snapshotLocked(), ErrSuperseded
	}

	d.loading = false

	if err != nil {
		fe, ok := weather.AsFetchError(err)
		if !ok {
			fe = weather.NewUnknownError(err)
		}
		d.status = StatusFailed
		d.fetchErr = fe

		span.SetAttributes(attribute.String("error.kind", string(fe.Kind)))
		return d.snapshotLocked(), fe
	}

	d.status = StatusLoaded
	d.report = report

	reqLogger.Info("Dashboard report loaded",
		zap.String("cache_key", q.Key()),
		zap.Int("days", report.Len()))

	return d.snapshotLocked(), nil
}

func (d *Dashboard) SetCurrentPage(page int) error {
	if page < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.currentPage = page
	return nil
}

// SetRowsPerPage does not clamp the current page; a page beyond the new
// total simply renders empty.
func (d *Dashboard) SetRowsPerPage(rows int) error {
	if !slices.Contains(d.allowedRowsPerPage, rows) {
		return fmt.Errorf("%w: got %d, allowed %v", ErrInvalidRowsPerPage, rows, d.allowedRowsPerPage)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rowsPerPage = rows
	return nil
}

// Clear empties the form. The report and the cache are kept.
func (d *Dashboard) Clear() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.form = validation.FormInput{}
	d.validationErrors = nil
	return d.snapshotLocked()
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshotLocked()
}

func (d *Dashboard) Page() PageView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Paginate(d.report, d.currentPage, d.rowsPerPage)
}

func (d *Dashboard) AllowedRowsPerPage() []int {
	return append([]int(nil), d.allowedRowsPerPage...)
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:           d.status,
		Report:           d.report,
		Loading:          d.loading,
		CurrentPage:      d.currentPage,
		RowsPerPage:      d.rowsPerPage,
		Form:             d.form,
		ValidationErrors: copyFields(d.validationErrors),
	}
	if d.fetchErr != nil {
		snap.Error = &ErrorState{
			Kind:       d.fetchErr.Kind,
			StatusCode: d.fetchErr.StatusCode,
			Message:    d.fetchErr.Error(),
		}
	}
	return snap
}

func copyFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
