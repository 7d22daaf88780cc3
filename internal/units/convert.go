// Package units holds the fixed conversion factors used when translating
// upstream metric readings into the mariner-facing display units: feet,
// mph, degrees, seconds.
package units

import "math"

const (
	metersToFeet      = 3.28084
	metersPerSecToMPH = 2.23694
)

// MetersToFeet converts a height in meters to feet. Returns nil if v is nil.
func MetersToFeet(v *float64) *float64 {
	return scale(v, metersToFeet)
}

// MPSToMPH converts a speed in meters/second to mph. Returns nil if v is nil.
func MPSToMPH(v *float64) *float64 {
	return scale(v, metersPerSecToMPH)
}

// NormalizeDegrees wraps a bearing into [0, 360). Returns nil if v is nil.
func NormalizeDegrees(v *float64) *float64 {
	if v == nil {
		return nil
	}
	d := *v
	d = mod360(d)
	return &d
}

func mod360(d float64) float64 {
	m := math.Mod(d, 360)
	if m < 0 {
		m += 360
	}
	return m
}

func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}
