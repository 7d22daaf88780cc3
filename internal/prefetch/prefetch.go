// Package prefetch runs the batched, bounded-concurrency cache warm that
// keeps every in-grid station's observation and forecast cache entries
// fresh ahead of client requests.
package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oceanwx/marine-aggregator/internal/buoyfetcher"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/catalogue"
	"github.com/oceanwx/marine-aggregator/internal/forecastfetcher"
)

const (
	defaultBatchSize         = 5
	defaultConcurrentBatches = 3
	defaultInterWaveDelay    = 1 * time.Second

	// defaultSkipThreshold: a station whose observation and forecast
	// cache entries both still have at least this much life left is not
	// about to expire, so this cycle leaves it alone.
	defaultSkipThreshold = 300 * time.Second
)

// Status is a point-in-time snapshot of one prefetch cycle's outcome.
type Status struct {
	Attempted   int
	Succeeded   int
	Skipped     int
	Failed      int
	Errors      []string
	LastUpdated time.Time
}

// Prefetcher warms the buoy and forecast caches for the full in-grid
// catalogue. Its Status is the only state shared with readers outside the
// cycle that produced it: one cycle writes it, in full, exactly once, at
// completion; readers only ever see a finished cycle's result.
type Prefetcher struct {
	catalogue *catalogue.Catalogue
	buoy      *buoyfetcher.Fetcher
	forecast  *forecastfetcher.Fetcher
	store     *cache.Store

	waveSize       int
	interWaveDelay time.Duration
	skipThreshold  time.Duration

	mu     sync.RWMutex
	status Status
}

// New builds a Prefetcher over the given catalogue, fetchers, and cache
// store, with the default wave shape and skip threshold.
func New(cat *catalogue.Catalogue, buoy *buoyfetcher.Fetcher, forecast *forecastfetcher.Fetcher, store *cache.Store) *Prefetcher {
	return &Prefetcher{
		catalogue:      cat,
		buoy:           buoy,
		forecast:       forecast,
		store:          store,
		waveSize:       defaultBatchSize * defaultConcurrentBatches,
		interWaveDelay: defaultInterWaveDelay,
		skipThreshold:  defaultSkipThreshold,
	}
}

// SetWaveShape overrides the per-wave concurrency (batchSize *
// concurrentBatches stations in flight at once) and the delay between
// waves, for wiring in configured prefetch.batchSize/concurrentBatches/
// interWaveDelay values.
func (p *Prefetcher) SetWaveShape(batchSize, concurrentBatches int, interWaveDelay time.Duration) {
	p.waveSize = batchSize * concurrentBatches
	p.interWaveDelay = interWaveDelay
}

// SetSkipThreshold overrides the minimum remaining TTL, on both the
// observation and forecast cache entries, below which a station is
// re-fetched rather than skipped.
func (p *Prefetcher) SetSkipThreshold(d time.Duration) {
	p.skipThreshold = d
}

// Status returns a copy of the most recently completed cycle's result. The
// zero value (all counts zero, no LastUpdated) is returned before the
// first cycle finishes.
func (p *Prefetcher) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.status
	s.Errors = append([]string(nil), p.status.Errors...)
	return s
}

// Run executes one prefetch cycle over the catalogue's in-grid stations
// and returns its final Status. Stations are processed in waves of
// waveSize with bounded concurrency, separated by interWaveDelay. A
// station whose observation and forecast cache entries are both still
// fresh enough is skipped; every other outcome is recorded but never halts
// the cycle — partial success is the expected outcome.
func (p *Prefetcher) Run(ctx context.Context) Status {
	var stations []catalogue.Station
	for _, s := range p.catalogue.Stations() {
		if s.InGrid {
			stations = append(stations, s)
		}
	}

	var acc Status
	var accMu sync.Mutex

	for start := 0; start < len(stations); start += p.waveSize {
		end := start + p.waveSize
		if end > len(stations) {
			end = len(stations)
		}
		wave := stations[start:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.waveSize)
		for _, st := range wave {
			st := st
			g.Go(func() error {
				outcome, err := p.fillStation(gctx, st)
				accMu.Lock()
				acc.Attempted++
				switch outcome {
				case outcomeSkipped:
					acc.Skipped++
				case outcomeSucceeded:
					acc.Succeeded++
				case outcomeFailed:
					acc.Failed++
					acc.Errors = append(acc.Errors, fmt.Sprintf("%s: %v", st.ID, err))
				}
				accMu.Unlock()
				return nil // isolate: one station's failure never cancels the wave
			})
		}
		_ = g.Wait()

		if end >= len(stations) {
			break
		}
		select {
		case <-ctx.Done():
			acc.LastUpdated = time.Now().UTC()
			p.commit(acc)
			return acc
		case <-time.After(p.interWaveDelay):
		}
	}

	acc.LastUpdated = time.Now().UTC()
	p.commit(acc)
	return acc
}

func (p *Prefetcher) commit(s Status) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeSucceeded
	outcomeFailed
)

// fillStation warms a single station's observation and forecast cache
// entries, skipping the fill entirely when both are already fresh enough.
func (p *Prefetcher) fillStation(ctx context.Context, st catalogue.Station) (outcome, error) {
	obsTTL := p.store.TTLOf(buoyfetcher.CacheKey(st.ID))
	fcstTTL := p.store.TTLOf(forecastfetcher.CacheKey(st.Lat, st.Lon))
	if obsTTL >= p.skipThreshold && fcstTTL >= p.skipThreshold {
		return outcomeSkipped, nil
	}

	if _, err := p.buoy.Fetch(ctx, st.ID); err != nil {
		return outcomeFailed, err
	}
	if _, err := p.forecast.Fetch(ctx, st.Lat, st.Lon); err != nil {
		return outcomeFailed, err
	}
	return outcomeSucceeded, nil
}
