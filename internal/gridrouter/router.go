// Package gridrouter maps a station's (lat, lon) onto the correct regional
// GFS-Wave model grid and grid-cell indices.
package gridrouter

import (
	"fmt"
	"math"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
)

// AxisSpec describes one axis (latitude or longitude) of a regular grid.
type AxisSpec struct {
	Start      float64
	End        float64
	Resolution float64
	Size       int
}

// Model is the static configuration of one regional forecast grid.
type Model struct {
	Name string
	Lat  AxisSpec
	Lon  AxisSpec
}

func axis(start, end, res float64) AxisSpec {
	size := int(math.Round((end-start)/res)) + 1
	return AxisSpec{Start: start, End: end, Resolution: res, Size: size}
}

// Models holds the three regional grids, in the fixed scan order used by
// Route. Values approximate the real NOAA GFS-Wave regional domains at
// 1/6-degree resolution.
var Models = []Model{
	{
		Name: "wcoast.0p16",
		Lat:  axis(25.0, 50.0, 0.166667),
		Lon:  axis(210.0, 250.0, 0.166667),
	},
	{
		Name: "atlocn.0p16",
		Lat:  axis(0.0, 55.0, 0.166667),
		Lon:  axis(260.0, 310.0, 0.166667),
	},
	{
		Name: "gulfmex.0p16",
		Lat:  axis(15.0, 32.5, 0.166667),
		Lon:  axis(260.0, 285.0, 0.166667),
	},
}

// Cell identifies a resolved grid point within a Model.
type Cell struct {
	Model Model
	Row   int
	Col   int
}

// NormalizeLongitude converts a longitude that may be expressed in either
// [-180, 180] or [0, 360] into [0, 360). Idempotent.
func NormalizeLongitude(lon float64) float64 {
	norm := math.Mod(lon, 360)
	if norm < 0 {
		norm += 360
	}
	return norm
}

func (m Model) contains(lat, normalizedLon float64) bool {
	return lat >= m.Lat.Start && lat <= m.Lat.End &&
		normalizedLon >= m.Lon.Start && normalizedLon <= m.Lon.End
}

// Route resolves (lat, lon) to the first containing model's grid cell, in
// the fixed scan order of Models. lon may be given in either [-180,180] or
// [0,360]. Returns apperr.CodeOutOfGrid if no model contains the point.
func Route(lat, lon float64) (Cell, error) {
	normalizedLon := NormalizeLongitude(lon)

	for _, m := range Models {
		if !m.contains(lat, normalizedLon) {
			continue
		}
		row := int(math.Round((lat - m.Lat.Start) / m.Lat.Resolution))
		col := int(math.Round((normalizedLon - m.Lon.Start) / m.Lon.Resolution))
		return Cell{Model: m, Row: row, Col: col}, nil
	}

	return Cell{}, apperr.Wrap(apperr.CodeOutOfGrid,
		fmt.Sprintf("coordinates (%.4f, %.4f) are outside all forecast model grids", lat, lon), nil)
}
