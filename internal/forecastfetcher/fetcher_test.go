package forecastfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/oceanwx/marine-aggregator/internal/cache"
)

// wcoastLat/wcoastLon fall inside the wcoast.0p16 grid (see the grid
// router's literal scenario check).
const wcoastLat, wcoastLon = 33.0, -117.5

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	f := New(srv.Client(), cache.New())
	f.baseURL = srv.URL
	f.retryDelay = time.Millisecond
	return f, srv
}

func TestFetch_OutOfGridReturnsOutOfGridError(t *testing.T) {
	f := New(http.DefaultClient, cache.New())
	_, err := f.Fetch(context.Background(), 21.3, -157.8) // Hawaii, outside all grids
	require.Error(t, err)
	assert.Equal(t, apperr.CodeOutOfGrid, apperr.CodeOf(err))
}

func TestFetch_ParsesAndCachesForecast(t *testing.T) {
	var calls int32
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(asciiFixture))
	})
	defer srv.Close()

	fc, err := f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.NoError(t, err)
	assert.Equal(t, "wcoast.0p16", fc.ModelID)
	require.NotEmpty(t, fc.Periods)
	assert.Equal(t, 1.20, *fc.Periods[0].WaveHeightM)

	// Second call is served from cache; no additional HTTP request.
	_, err = f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_RetriesOn502ThenSucceeds(t *testing.T) {
	var calls int32
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(asciiFixture))
	})
	defer srv.Close()

	fc, err := f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.NoError(t, err)
	assert.NotEmpty(t, fc.Periods)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFetch_FatalClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_404IsUpstreamUnavailableAfterRetries(t *testing.T) {
	var calls int32
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUpstreamUnavailable, apperr.CodeOf(err))
	assert.Equal(t, int32(defaultMaxRetries), atomic.LoadInt32(&calls))
}

func TestCacheKey_RoundsAndNormalizesLongitude(t *testing.T) {
	assert.Equal(t, "fcst:33.0000_242.5000", CacheKey(33.0, -117.5))
}

func TestFetch_RequestPathIncludesModelAndCycle(t *testing.T) {
	var gotPath string
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(asciiFixture))
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), wcoastLat, wcoastLon)
	require.NoError(t, err)
	assert.True(t, strings.Contains(gotPath, "gfswave.wcoast.0p16_"))
}
