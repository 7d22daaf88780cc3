package buoyfetcher

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

const metFixture = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC   mi   hPa    ft
2026 08 06 12 30  270  8.2 10.1  1.8   9.0   7.2 280 1013.2  18.5  17.2    MM   MM    MM     MM
`

const specFixture = `#YY  MM DD hh mm WVHT  SwH  SwP  WWH  WWP  SwD  WWD STEEPNESS  APD MWD
#yr  mo dy hr mn    m    m  sec    m  sec  deg  deg         -  sec deg
2026 08 06 12 30   1.8  1.5  9.0  0.6  4.0  280  260     STEEP  7.2 280
`

func newTestFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	f := New(srv.Client(), cache.New())
	f.baseURL = srv.URL
	return f, srv
}

func TestFetch_ParsesMetAndSpecIntoObservation(t *testing.T) {
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, ".txt"):
			w.Write([]byte(metFixture))
		case strings.HasSuffix(r.URL.Path, ".spec"):
			w.Write([]byte(specFixture))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer srv.Close()

	obs, err := f.Fetch(context.Background(), "46042")
	require.NoError(t, err)
	assert.Equal(t, "46042", obs.StationID)
	require.NotNil(t, obs.Wind.SpeedMPS)
	assert.InDelta(t, 8.2, *obs.Wind.SpeedMPS, 0.001)
	require.NotNil(t, obs.Wave.Swell)
	require.NotNil(t, obs.Wave.WindWave)
	assert.Equal(t, "STEEP", obs.Wave.Steepness)
}

func TestFetch_MissingSpectralDataIsNotFatal(t *testing.T) {
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".txt") {
			w.Write([]byte(metFixture))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	obs, err := f.Fetch(context.Background(), "46042")
	require.NoError(t, err)
	assert.Nil(t, obs.Wave.Swell)
}

func TestFetch_MissingMeteorologicalDataIsNotFound(t *testing.T) {
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), "99999")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNoData(), apperr.CodeOf(err))
}

func TestFetch_UpstreamServerErrorIsUpstreamUnavailable(t *testing.T) {
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), "46042")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUpstreamUnavailable, apperr.CodeOf(err))
}

func TestFetch_CachesAndCoalescesConcurrentMisses(t *testing.T) {
	var calls int32
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".txt") {
			atomic.AddInt32(&calls, 1)
			w.Write([]byte(metFixture))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	const n = 20
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := f.Fetch(context.Background(), "46042")
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-results)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// Cached observation is served without another fetch.
	_, err := f.Fetch(context.Background(), "46042")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_EmptyBodyIsNoData(t *testing.T) {
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(""))
	})
	defer srv.Close()

	_, err := f.Fetch(context.Background(), "46042")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNoData(), apperr.CodeOf(err))
}

func TestFetch_SlowUpstreamRespectsCallerDeadline(t *testing.T) {
	blocked := make(chan struct{})
	f, srv := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	})
	defer func() {
		close(blocked)
		srv.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := f.Fetch(ctx, "46042")
	require.Error(t, err)
}
