// Package catalogue loads and holds the static, immutable set of stations
// this service publishes conditions for.
package catalogue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/oceanwx/marine-aggregator/internal/gridrouter"
)

// Station is one entry in the offshore station catalogue.
type Station struct {
	ID              string
	Name            string
	Lon             float64
	Lat             float64
	Type            string
	HasRealTimeData bool

	// InGrid and Cell are resolved once at load time so hot-path lookups
	// never re-run grid math.
	InGrid bool
	Cell   gridrouter.Cell
}

// Catalogue is the immutable, in-memory set of known stations, indexed by
// ID for O(1) lookup.
type Catalogue struct {
	stations []Station
	byID     map[string]Station
}

// Stations returns every station, in catalogue order.
func (c *Catalogue) Stations() []Station {
	return c.stations
}

// Lookup returns the station with the given ID.
func (c *Catalogue) Lookup(id string) (Station, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// geoJSON mirrors the subset of the FeatureCollection schema this loader
// consumes: properties.id, properties.name, properties.type,
// properties.hasRealTimeData, and a Point geometry of [lon, lat].
type geoJSON struct {
	Features []struct {
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			ID              string `json:"id"`
			Name            string `json:"name"`
			Type            string `json:"type"`
			HasRealTimeData bool   `json:"hasRealTimeData"`
		} `json:"properties"`
	} `json:"features"`
}

// Load reads a GeoJSON FeatureCollection from path and builds a Catalogue.
// Station IDs are treated as opaque strings: no length or format
// validation is applied, since the catalogue is known to contain a small
// number of non-canonical (longer than 7-digit) IDs.
func Load(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening station catalogue: %w", err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) (*Catalogue, error) {
	var doc geoJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding station catalogue: %w", err)
	}

	c := &Catalogue{
		byID: make(map[string]Station, len(doc.Features)),
	}

	for _, f := range doc.Features {
		if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
			continue
		}
		if f.Properties.ID == "" {
			continue
		}

		s := Station{
			ID:              f.Properties.ID,
			Name:            f.Properties.Name,
			Lon:             f.Geometry.Coordinates[0],
			Lat:             f.Geometry.Coordinates[1],
			Type:            f.Properties.Type,
			HasRealTimeData: f.Properties.HasRealTimeData,
		}

		if cell, err := gridrouter.Route(s.Lat, s.Lon); err == nil {
			s.InGrid = true
			s.Cell = cell
		}

		c.stations = append(c.stations, s)
		c.byID[s.ID] = s
	}

	return c, nil
}
