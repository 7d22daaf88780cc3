// Package forecastfetcher retrieves and parses the GFS-Wave regional
// forecast for a grid cell resolved by the grid router.
package forecastfetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/cadence"
	"github.com/oceanwx/marine-aggregator/internal/gridrouter"
	"github.com/oceanwx/marine-aggregator/internal/marine"
)

// Fetcher retrieves and caches regional wave forecasts.
type Fetcher struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	store      *cache.Store

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// New creates a Fetcher backed by the given shared HTTP client and cache
// store, fetching against the standard NOMADS GFS-Wave endpoint, with one
// circuit breaker lazily created per model region.
func New(client *http.Client, store *cache.Store) *Fetcher {
	return NewWithBaseURL(client, defaultBase, store)
}

// NewWithBaseURL is New with an overridden base URL, for pointing at a
// configured mirror or a test server.
func NewWithBaseURL(client *http.Client, baseURL string, store *cache.Store) *Fetcher {
	return &Fetcher{
		client:     client,
		baseURL:    baseURL,
		maxRetries: defaultMaxRetries,
		retryDelay: defaultRetryDelay,
		store:      store,
		breakers:   make(map[string]*gobreaker.CircuitBreaker),
	}
}

// SetRetryPolicy overrides the retry count and backoff delay, for wiring
// in the configured request.maxRetries/request.retryDelay values.
func (f *Fetcher) SetRetryPolicy(maxRetries int, delay time.Duration) {
	f.maxRetries = maxRetries
	f.retryDelay = delay
}

// CacheKey returns the cache key for a resolved grid cell's forecast. lat
// and the normalized lon are rounded to 4 decimals, well finer than the
// grid's own 1/6-degree resolution.
func CacheKey(lat, lon float64) string {
	normalizedLon := gridrouter.NormalizeLongitude(lon)
	return fmt.Sprintf("fcst:%.4f_%.4f", lat, normalizedLon)
}

// Fetch resolves (lat, lon) to a grid cell and returns its forecast,
// filling the cache on a miss.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) (marine.Forecast, error) {
	cell, err := gridrouter.Route(lat, lon)
	if err != nil {
		return marine.Forecast{}, err
	}

	key := CacheKey(lat, lon)
	return cache.FillTTL(ctx, f.store, key, func(ctx context.Context) (marine.Forecast, time.Duration, error) {
		return f.fill(ctx, cell, lat, lon)
	})
}

func (f *Fetcher) fill(ctx context.Context, cell gridrouter.Cell, lat, lon float64) (marine.Forecast, time.Duration, error) {
	run := cadence.LatestAvailableCycle(time.Now())
	url := buildURL(f.baseURL, run, cell.Model.Name, cell.Row, cell.Col)

	body, err := doRequestWithResilience(ctx, f.client, f.breakerFor(cell.Model.Name), f.maxRetries, f.retryDelay, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	})
	if err != nil {
		return marine.Forecast{}, 0, translateErr(err)
	}

	series, err := parseASCII(body)
	if err != nil {
		return marine.Forecast{}, 0, err
	}

	periods := assemble(cell.Model.Name, run.Date, run.Cycle, series)
	forecast := marine.Forecast{
		ModelID:   cell.Model.Name,
		Generated: run.AvailableAt(),
		Lat:       lat,
		Lon:       lon,
		Periods:   periods,
	}

	ttl := cadence.Clamp(cadence.SecondsUntilNextCycleAvailable(time.Now()))
	return forecast, ttl, nil
}

func (f *Fetcher) breakerFor(modelName string) *gobreaker.CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()
	cb, ok := f.breakers[modelName]
	if !ok {
		cb = newCircuitBreaker(modelName)
		f.breakers[modelName] = cb
	}
	return cb
}

func translateErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Wrap(apperr.CodeTimeout, "forecast fetch deadline exceeded", err)
	}
	return apperr.Wrap(apperr.CodeUpstreamUnavailable, "fetching forecast", err)
}
