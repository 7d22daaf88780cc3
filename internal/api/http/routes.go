// Package httpapi is the thin HTTP presentation layer over the
// refresh-and-caching core: list/nearest/station/purge/health routes plus
// a narrow tide-prediction passthrough, all out of the core's own concern
// per its read-through design.
package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/oceanwx/marine-aggregator/internal/aggregator"
	"github.com/oceanwx/marine-aggregator/internal/cache"
	"github.com/oceanwx/marine-aggregator/internal/catalogue"
	"github.com/oceanwx/marine-aggregator/internal/prefetch"
)

var validate = validator.New()

// Scheduler is the subset of *scheduler.Scheduler the health route reads.
type Scheduler interface {
	IsRunning() bool
}

// RegisterRoutes wires every handler into the Fiber app's /api/v1 group.
func RegisterRoutes(app *fiber.App, agg *aggregator.Aggregator, cat *catalogue.Catalogue, pf *prefetch.Prefetcher, sched Scheduler, store *cache.Store, tideClient *http.Client, tideBaseURL string) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(toFeatureCollection(cat.Stations()))
	})

	v1.Get("/stations/nearest", func(c *fiber.Ctx) error {
		q, err := parseNearestQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		nearest, ok := findNearest(cat.Stations(), q.Lat, q.Lon)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no stations in catalogue")
		}
		return c.JSON(toFeatureCollection([]catalogue.Station{nearest}).Features[0])
	})

	v1.Get("/stations/:id", func(c *fiber.Ctx) error {
		env, err := agg.GetStation(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(toStationEnvelope(env))
	})

	v1.Post("/cache/purge", func(c *fiber.Ctx) error {
		store.Purge()
		return c.JSON(fiber.Map{"purged": true})
	})

	v1.Get("/health", func(c *fiber.Ctx) error {
		status := pf.Status()
		return c.JSON(fiber.Map{
			"status":    "ok",
			"scheduler": schedulerState(sched),
			"prefetch":  status,
		})
	})

	proxy := newTideProxy(tideClient, tideBaseURL)
	v1.Get("/tides/:id", proxy.handle)
}

func schedulerState(s Scheduler) string {
	if s == nil {
		return "unknown"
	}
	if s.IsRunning() {
		return "running"
	}
	return "stopped"
}

type nearestQuery struct {
	Lat float64 `validate:"required,gte=-90,lte=90"`
	Lon float64 `validate:"required,gte=-180,lte=180"`
}

func parseNearestQuery(c *fiber.Ctx) (nearestQuery, error) {
	var q nearestQuery

	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return q, errors.New("lat query parameter must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return q, errors.New("lon query parameter must be a number")
	}
	q.Lat, q.Lon = lat, lon

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func findNearest(stations []catalogue.Station, lat, lon float64) (catalogue.Station, bool) {
	var (
		best     catalogue.Station
		bestDist = math.Inf(1)
		found    bool
	)
	for _, s := range stations {
		d := haversineKM(lat, lon, s.Lat, s.Lon)
		if d < bestDist {
			bestDist = d
			best = s
			found = true
		}
	}
	return best, found
}
