// Package buoyfetcher retrieves and parses the live NDBC observation
// stream for a station, deriving trend and wind-condition category.
package buoyfetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/cadence"
	"github.com/oceanwx/marine-aggregator/internal/marine"
)

const (
	fetchTimeout = 10 * time.Second
	defaultBase  = "https://www.ndbc.noaa.gov/data/realtime2"
)

// Fetcher retrieves and caches buoy observations.
type Fetcher struct {
	client  *http.Client
	baseURL string
	store   *cache.Store
}

// New creates a Fetcher that uses the given shared HTTP client and cache
// store, fetching against the standard NDBC realtime2 endpoint. client
// should be a keep-alive client reused across the process (see
// cmd/marine-aggregator's httpClient wiring).
func New(client *http.Client, store *cache.Store) *Fetcher {
	return NewWithBaseURL(client, defaultBase, store)
}

// NewWithBaseURL is New with an overridden base URL, for pointing at a
// configured mirror or a test server.
func NewWithBaseURL(client *http.Client, baseURL string, store *cache.Store) *Fetcher {
	return &Fetcher{client: client, baseURL: baseURL, store: store}
}

// CacheKey returns the cache key used for a station's observation.
func CacheKey(stationID string) string {
	return "obs:" + stationID
}

// Fetch returns the cached observation for stationID, filling it through a
// live NDBC fetch on a miss.
func (f *Fetcher) Fetch(ctx context.Context, stationID string) (marine.Observation, error) {
	return cache.FillTTL(ctx, f.store, CacheKey(stationID), func(ctx context.Context) (marine.Observation, time.Duration, error) {
		return f.fill(ctx, stationID)
	})
}

// fill performs the live fetch-and-parse. The TTL used to cache the result
// is computed at fill time (not at call time) since it depends on when the
// fill actually completes.
func (f *Fetcher) fill(ctx context.Context, stationID string) (marine.Observation, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var metBody, specBody []byte
	var specMissing bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		body, status, err := f.get(gctx, stationID+".txt")
		if err != nil {
			return apperr.Wrap(apperr.CodeUpstreamUnavailable, "fetching meteorological data", err)
		}
		if status == http.StatusNotFound {
			return apperr.New(apperr.CodeNoData(), "no meteorological data for station "+stationID)
		}
		if status < 200 || status >= 300 {
			return apperr.Wrap(apperr.CodeUpstreamUnavailable, fmt.Sprintf("meteorological endpoint returned status %d", status), nil)
		}
		metBody = body
		return nil
	})
	g.Go(func() error {
		body, status, err := f.get(gctx, stationID+".spec")
		if err != nil || status == http.StatusNotFound || status < 200 || status >= 300 {
			specMissing = true
			return nil
		}
		specBody = body
		return nil
	})

	if err := g.Wait(); err != nil {
		return marine.Observation{}, 0, err
	}

	metTable, err := parseTable(bytes.NewReader(metBody))
	if err != nil {
		return marine.Observation{}, 0, apperr.Wrap(apperr.CodeInternal, "parsing meteorological data", err)
	}
	if len(metTable.rows) == 0 {
		return marine.Observation{}, 0, apperr.New(apperr.CodeNoData(), "no observation rows for station "+stationID)
	}

	var specTable table
	if !specMissing && !isEmptyBody(specBody) {
		specTable, err = parseTable(bytes.NewReader(specBody))
		if err != nil {
			specTable = table{}
		}
	}

	obs, err := buildObservation(stationID, metTable, specTable)
	if err != nil {
		return marine.Observation{}, 0, err
	}

	ttl := cadence.Clamp(cadence.SecondsUntilNextObservation(time.Now()))
	return obs, ttl, nil
}

func (f *Fetcher) get(ctx context.Context, path string) ([]byte, int, error) {
	url := fmt.Sprintf("%s/%s", f.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
