// Package presentation renders the prose mariner summary and compass-
// direction text from the structured fields the refresh-and-caching core
// emits (Trend, Beaufort, Dominant). Kept outside the core so its output
// carries no randomized or template-varying non-determinism into the
// core's own tests.
package presentation

import "math"

// compassPoint pairs an eight-point compass label with the upper bound
// (exclusive) of the bearing range it covers, wrapping at 337.5.
type compassPoint struct {
	upperBound float64
	label      string
}

var compassPoints = []compassPoint{
	{22.5, "N"},
	{67.5, "NE"},
	{112.5, "E"},
	{157.5, "SE"},
	{202.5, "S"},
	{247.5, "SW"},
	{292.5, "W"},
	{337.5, "NW"},
}

// CompassDirection maps a bearing in degrees to an eight-point compass
// label (N, NE, E, SE, S, SW, W, NW).
func CompassDirection(degrees float64) string {
	d := mod360(degrees)
	for _, p := range compassPoints {
		if d < p.upperBound {
			return p.label
		}
	}
	return "N" // 337.5-360 wraps back to north
}

func mod360(d float64) float64 {
	m := math.Mod(d, 360)
	if m < 0 {
		m += 360
	}
	return m
}
