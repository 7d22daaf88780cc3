package presentation

import (
	"fmt"
	"strings"

	"github.com/oceanwx/marine-aggregator/internal/marine"
)

// StationSummary is the English-prose rendering of an Observation: a wave
// clause chosen by its dominant partition, the dominant period in seconds
// when present, the Beaufort sea description, the wind's compass
// direction, and a clause for any non-steady trend.
func StationSummary(o marine.Observation) string {
	parts := []string{waveClause(o.Wave, o.Dominant)}

	if o.Wave.DominantPeriodSec != nil {
		parts = append(parts, fmt.Sprintf("at %.0fs intervals", *o.Wave.DominantPeriodSec))
	}

	parts = append(parts, fmt.Sprintf("with %s winds", strings.ToLower(o.Beaufort.SeaDescription)))
	parts = append(parts, windClause(o.Wind))

	sentence := strings.Join(parts, ", ") + "."
	if trend := trendClause(o.Trend); trend != "" {
		sentence += " " + trend
	}
	return sentence
}

func waveClause(w marine.Wave, dominant marine.DominantPartition) string {
	if w.HeightM == nil {
		return "No wave data"
	}
	desc := "Building"
	switch dominant {
	case marine.DominantSwellOnly:
		desc = "Clean swell"
	case marine.DominantWindWaveOnly:
		desc = "Wind-driven chop"
	case marine.DominantMixed:
		desc = "Mixed swell and wind waves"
	}
	return desc
}

func windClause(w marine.Wind) string {
	if w.SpeedMPS == nil {
		return "wind speed unavailable"
	}
	dir := "variable"
	if w.DirectionDeg != nil {
		dir = CompassDirection(*w.DirectionDeg)
	}
	return fmt.Sprintf("out of the %s", dir)
}

func trendClause(t marine.Trend) string {
	var pieces []string
	if t.WaveHeight != nil && *t.WaveHeight != marine.TrendSteady {
		pieces = append(pieces, fmt.Sprintf("seas %s", *t.WaveHeight))
	}
	if t.WindSpeed != nil && *t.WindSpeed != marine.TrendSteady {
		pieces = append(pieces, fmt.Sprintf("wind %s", *t.WindSpeed))
	}
	if len(pieces) == 0 {
		return ""
	}
	return "Conditions " + strings.Join(pieces, " and ") + "."
}
