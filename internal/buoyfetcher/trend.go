package buoyfetcher

import (
	"github.com/oceanwx/marine-aggregator/internal/marine"
	"github.com/oceanwx/marine-aggregator/internal/units"
)

// trendWindow is how many of the most recent observations feed the trend
// calculation (N=8, roughly 4 hours at 30-minute cadence).
const trendWindow = 8

const (
	waveHeightThresholdFt = 0.5
	wavePeriodThresholdS  = 1.0
	windSpeedThresholdMPH = 2.0
)

// sample is one met-row observation reduced to the fields trend derivation
// needs, in feet/mph display units.
type sample struct {
	waveHeightFt *float64
	periodSec    *float64
	windSpeedMPH *float64
}

// deriveTrend computes wave-height, period, and wind-speed trends from the
// most recent trendWindow samples, oldest-valid vs newest-valid within the
// window. samples[0] must be the most recent.
func deriveTrend(samples []sample) marine.Trend {
	if len(samples) > trendWindow {
		samples = samples[:trendWindow]
	}

	return marine.Trend{
		WaveHeight: deltaTrend(pluck(samples, func(s sample) *float64 { return s.waveHeightFt }), waveHeightThresholdFt, marine.TrendBuilding, marine.TrendDropping),
		WavePeriod: deltaTrend(pluck(samples, func(s sample) *float64 { return s.periodSec }), wavePeriodThresholdS, marine.TrendLengthening, marine.TrendShortening),
		WindSpeed:  deltaTrend(pluck(samples, func(s sample) *float64 { return s.windSpeedMPH }), windSpeedThresholdMPH, marine.TrendIncreasing, marine.TrendDecreasing),
	}
}

func pluck(samples []sample, f func(sample) *float64) []*float64 {
	out := make([]*float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}

// deltaTrend finds the most-recent-valid and oldest-valid-within-window
// values, computes their delta, and classifies it against threshold. Nil
// if fewer than two valid samples exist.
func deltaTrend(values []*float64, threshold float64, up, down marine.TrendDirection) *marine.TrendDirection {
	var newest, oldest *float64
	for _, v := range values {
		if v == nil {
			continue
		}
		if newest == nil {
			newest = v
		}
		oldest = v
	}
	if newest == nil || oldest == nil || newest == oldest {
		return nil
	}

	delta := *newest - *oldest
	var dir marine.TrendDirection
	switch {
	case delta > threshold:
		dir = up
	case delta < -threshold:
		dir = down
	default:
		dir = marine.TrendSteady
	}
	return &dir
}

// toWaveHeightFt/toWindSpeedMPH convert a met-row's metric reading into the
// display units the trend thresholds are expressed in.
func toWaveHeightFt(v *float64) *float64 { return units.MetersToFeet(v) }
func toWindSpeedMPH(v *float64) *float64 { return units.MPSToMPH(v) }
