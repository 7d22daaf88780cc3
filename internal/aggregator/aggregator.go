// Package aggregator composes the buoy and forecast fetchers into the
// per-station Envelope served to clients, backed by the shared cache
// store. This is the read path's single entry point.
package aggregator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/oceanwx/marine-aggregator/internal/buoyfetcher"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/catalogue"
	"github.com/oceanwx/marine-aggregator/internal/forecastfetcher"
	"github.com/oceanwx/marine-aggregator/internal/marine"
)

const (
	buoyDeadline     = 10 * time.Second
	forecastDeadline = 20 * time.Second
)

// Aggregator resolves stations to merged, cached Envelopes.
type Aggregator struct {
	catalogue *catalogue.Catalogue
	buoy      *buoyfetcher.Fetcher
	forecast  *forecastfetcher.Fetcher
	store     *cache.Store
}

// New builds an Aggregator over the given catalogue, fetchers, and cache
// store. All four are shared, long-lived collaborators constructed once
// at startup.
func New(cat *catalogue.Catalogue, buoy *buoyfetcher.Fetcher, forecast *forecastfetcher.Fetcher, store *cache.Store) *Aggregator {
	return &Aggregator{catalogue: cat, buoy: buoy, forecast: forecast, store: store}
}

// EnvelopeCacheKey returns the cache key for a station's merged envelope.
func EnvelopeCacheKey(stationID string) string {
	return "env:" + stationID
}

// GetStation resolves a station's current conditions, serving from cache
// when fresh and otherwise filling both the observation and (when the
// station is in a forecast grid) the forecast concurrently.
func (a *Aggregator) GetStation(ctx context.Context, stationID string) (marine.Envelope, error) {
	station, ok := a.catalogue.Lookup(stationID)
	if !ok {
		return marine.Envelope{}, apperr.New(apperr.CodeNotFound, "unknown station "+stationID)
	}

	return cache.FillTTL(ctx, a.store, EnvelopeCacheKey(stationID), func(ctx context.Context) (marine.Envelope, time.Duration, error) {
		return a.fill(ctx, station)
	})
}

func (a *Aggregator) fill(ctx context.Context, station catalogue.Station) (marine.Envelope, time.Duration, error) {
	var (
		obs      marine.Observation
		obsErr   error
		fcst     marine.Forecast
		fcstErr  error
		haveFcst bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obsCtx, cancel := context.WithTimeout(gctx, buoyDeadline)
		defer cancel()
		obs, obsErr = a.buoy.Fetch(obsCtx, station.ID)
		return nil // partial success: forecast failure must not cancel this
	})
	if station.InGrid {
		haveFcst = true
		g.Go(func() error {
			fcstCtx, cancel := context.WithTimeout(gctx, forecastDeadline)
			defer cancel()
			fcst, fcstErr = a.forecast.Fetch(fcstCtx, station.Lat, station.Lon)
			return nil
		})
	}
	// errgroup.Wait's error is always nil here; both branches record their
	// own error instead of cancelling their sibling.
	_ = g.Wait()

	if obsErr != nil {
		if apperr.CodeOf(obsErr) == apperr.CodeNoData() {
			return marine.Envelope{}, 0, apperr.Wrap(apperr.CodeNotFound, "no observation data for station "+station.ID, obsErr)
		}
		return marine.Envelope{}, 0, obsErr
	}

	obsTTL := a.store.TTLOf(buoyfetcher.CacheKey(station.ID))

	env := marine.Envelope{
		Station: marine.StationHeader{
			ID:   station.ID,
			Name: station.Name,
			Lon:  station.Lon,
			Lat:  station.Lat,
		},
		Generated:   time.Now().UTC(),
		Observation: &obs,
		Units:       marine.DefaultUnits,
	}

	ttl := obsTTL
	if haveFcst {
		if fcstErr != nil {
			env.ForecastErr = &marine.ForecastError{
				Kind:    string(apperr.CodeOf(fcstErr)),
				Message: fcstErr.Error(),
			}
		} else {
			env.Forecast = &fcst
			fcstTTL := a.store.TTLOf(forecastfetcher.CacheKey(station.Lat, station.Lon))
			ttl = minDuration(ttl, fcstTTL)
		}
	}

	return env, ttl, nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
