package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-dashboard/internal/cache"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"go.uber.org/zap/zaptest"
)

type countingMetrics struct {
	mu           sync.Mutex
	hits, misses int
	calls        map[bool]int
}

func (m *countingMetrics) RecordCacheHit(ctx context.Context, cacheType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) RecordCacheMiss(ctx context.Context, cacheType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *countingMetrics) RecordArchiveCall(ctx context.Context, service string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[bool]int)
	}
	m.calls[success]++
}

func fifteenDayArchive() map[string]interface{} {
	times := make([]string, 15)
	values := make([]float64, 15)
	for i := range times {
		times[i] = fmt.Sprintf("2024-12-%02d", 9+i)
		values[i] = float64(i) - 2.5
	}

	daily := map[string]interface{}{"time": times}
	units := map[string]string{"time": "iso8601"}
	for _, metric := range weather.DailyMetrics {
		daily[metric] = values
		units[metric] = "°C"
	}
	return map[string]interface{}{"daily": daily, "daily_units": units}
}

func newArchiveServer(t *testing.T, status int) (*httptest.Server, *int64) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fifteenDayArchive())
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newHTTPFetcher(t *testing.T, baseURL string) *Fetcher {
	logger := zaptest.NewLogger(t)
	archive := service.NewOpenMeteoArchiveService(config.ArchiveConfig{BaseURL: baseURL, Timezone: "auto"}, logger, nil)
	return NewFetcher(archive, cache.New(config.CacheConfig{}), logger, nil)
}

var berlin = weather.Query{Latitude: 52.52, Longitude: 13.41, StartDate: "2024-12-09", EndDate: "2024-12-23"}

func TestFetcher_IdenticalQueriesHitNetworkOnce(t *testing.T) {
	srv, hits := newArchiveServer(t, http.StatusOK)
	fetcher := newHTTPFetcher(t, srv.URL)

	metrics := &countingMetrics{}
	fetcher.SetMetricsRecorder(metrics)

	first, err := fetcher.Fetch(context.Background(), berlin)
	require.NoError(t, err)
	second, err := fetcher.Fetch(context.Background(), berlin)
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(hits))
	assert.Equal(t, first, second)
	assert.Len(t, first.Data, 15)
	assert.Equal(t, "2024-12-09", first.Data[0].Time)
	assert.Equal(t, "2024-12-23", first.Data[14].Time)

	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.calls[true])

	stats := fetcher.GetCacheStats()
	assert.Equal(t, 1, stats["cache_size"])
	assert.Equal(t, "open-meteo-archive", stats["archive_service"])
}

func TestFetcher_DifferentQueriesMiss(t *testing.T) {
	srv, hits := newArchiveServer(t, http.StatusOK)
	fetcher := newHTTPFetcher(t, srv.URL)

	other := berlin
	other.Longitude = -13.41

	_, err := fetcher.Fetch(context.Background(), berlin)
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), other)
	require.NoError(t, err)

	assert.Equal(t, int64(2), atomic.LoadInt64(hits))

	fetcher.ClearCache()
	_, err = fetcher.Fetch(context.Background(), berlin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), atomic.LoadInt64(hits))
}

func TestFetcher_FailuresAreNotCached(t *testing.T) {
	srv, hits := newArchiveServer(t, http.StatusInternalServerError)
	fetcher := newHTTPFetcher(t, srv.URL)

	metrics := &countingMetrics{}
	fetcher.SetMetricsRecorder(metrics)

	for i := 0; i < 2; i++ {
		_, err := fetcher.Fetch(context.Background(), berlin)
		fe, ok := weather.AsFetchError(err)
		require.True(t, ok)
		assert.Equal(t, weather.ServerError, fe.Kind)
	}

	assert.Equal(t, int64(2), atomic.LoadInt64(hits))
	assert.Equal(t, 2, metrics.calls[false])
}

func TestDashboard_ScenarioAgainstHTTPProvider(t *testing.T) {
	srv, _ := newArchiveServer(t, http.StatusOK)
	fetcher := newHTTPFetcher(t, srv.URL)
	d := New(fetcher, config.NewDefaultConfig().Dashboard, zaptest.NewLogger(t), nil)

	assert.Equal(t, StatusIdle, d.Snapshot().Status)

	snap, err := d.Submit(context.Background(), defaultForm())
	require.NoError(t, err)

	assert.Equal(t, StatusLoaded, snap.Status)
	assert.Len(t, snap.Report.Data, 15)
	assert.Equal(t, 1, snap.CurrentPage)
	assert.Equal(t, 10, snap.RowsPerPage)
}

func TestDashboard_ServerErrorAgainstHTTPProvider(t *testing.T) {
	srv, _ := newArchiveServer(t, http.StatusInternalServerError)
	fetcher := newHTTPFetcher(t, srv.URL)
	d := New(fetcher, config.NewDefaultConfig().Dashboard, zaptest.NewLogger(t), nil)

	snap, err := d.Submit(context.Background(), defaultForm())
	require.Error(t, err)

	require.NotNil(t, snap.Error)
	assert.Equal(t, weather.ServerError, snap.Error.Kind)
	assert.Contains(t, snap.Error.Message, "500")
	assert.Nil(t, snap.Report)
}

func TestDashboard_CallerCancellationDoesNotAbortFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(fifteenDayArchive())
	}))
	t.Cleanup(srv.Close)

	fetcher := newHTTPFetcher(t, srv.URL)
	d := New(fetcher, config.NewDefaultConfig().Dashboard, zaptest.NewLogger(t), nil)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		snap Snapshot
		err  error
	}
	done := make(chan result, 1)
	go func() {
		snap, err := d.Submit(ctx, defaultForm())
		done <- result{snap, err}
	}()

	<-started
	cancel()
	close(release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, StatusLoaded, res.snap.Status)
	assert.Nil(t, res.snap.Error)
	assert.Len(t, res.snap.Report.Data, 15)
	assert.Equal(t, 1, fetcher.CacheLen())
}
