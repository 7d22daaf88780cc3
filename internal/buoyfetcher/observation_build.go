package buoyfetcher

import (
	"time"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
	"github.com/oceanwx/marine-aggregator/internal/marine"
)

// buildObservation reduces a parsed meteorological table (required, most
// recent row first) and an optional spectral table into a normalized
// Observation: latest reading, trend over the most recent trendWindow
// rows, and the derived Beaufort/dominant-partition classifications.
func buildObservation(stationID string, met, spec table) (marine.Observation, error) {
	latest := met.rows[0]

	obsTime, ok := rowTime(met, latest)
	if !ok {
		return marine.Observation{}, apperr.New(apperr.CodeInternal, "meteorological row missing timestamp fields")
	}

	obs := marine.Observation{
		StationID: stationID,
		Time:      obsTime,
		Wind: marine.Wind{
			DirectionDeg: sentinelFloat(met.get(latest, "WDIR")),
			SpeedMPS:     sentinelFloat(met.get(latest, "WSPD")),
			GustMPS:      sentinelFloat(met.get(latest, "GST")),
		},
		Wave: marine.Wave{
			HeightM:           sentinelFloat(met.get(latest, "WVHT")),
			DominantPeriodSec: sentinelFloat(met.get(latest, "DPD")),
			AveragePeriodSec:  sentinelFloat(met.get(latest, "APD")),
			DirectionDeg:      sentinelFloat(met.get(latest, "MWD")),
		},
		Atmosphere: marine.Atmosphere{
			PressureHpa: sentinelFloat(met.get(latest, "PRES")),
			AirTempC:    sentinelFloat(met.get(latest, "ATMP")),
			WaterTempC:  sentinelFloat(met.get(latest, "WTMP")),
			DewPointC:   sentinelFloat(met.get(latest, "DEWP")),
		},
	}

	obs.Trend = deriveTrend(buildSamples(met))
	obs.Beaufort = beaufortCategory(windSpeedMPHOrZero(obs.Wind.SpeedMPS))

	if len(spec.rows) > 0 {
		swell, windWave, steepness := parseSpectral(spec, spec.rows[0])
		obs.Wave.Swell = swell
		obs.Wave.WindWave = windWave
		obs.Wave.Steepness = steepness
	}
	obs.Dominant = dominantPartition(obs.Wave.Swell, obs.Wave.WindWave)

	return obs, nil
}

// rowTime assembles a UTC timestamp from an NDBC row's YY/MM/DD/hh/mm
// columns. NDBC's realtime2 files use 4-digit years.
func rowTime(t table, row []string) (time.Time, bool) {
	year := sentinelFloat(t.get(row, "YY"))
	month := sentinelFloat(t.get(row, "MM"))
	day := sentinelFloat(t.get(row, "DD"))
	hour := sentinelFloat(t.get(row, "hh"))
	minute := sentinelFloat(t.get(row, "mm"))
	if year == nil || month == nil || day == nil || hour == nil || minute == nil {
		return time.Time{}, false
	}
	y := int(*year)
	if y < 100 {
		y += 2000
	}
	return time.Date(y, time.Month(int(*month)), int(*day), int(*hour), int(*minute), 0, 0, time.UTC), true
}

// buildSamples reduces up to trendWindow of the most recent met rows into
// display-unit samples, most recent first.
func buildSamples(met table) []sample {
	n := len(met.rows)
	if n > trendWindow {
		n = trendWindow
	}
	samples := make([]sample, n)
	for i := 0; i < n; i++ {
		row := met.rows[i]
		samples[i] = sample{
			waveHeightFt: toWaveHeightFt(sentinelFloat(met.get(row, "WVHT"))),
			periodSec:    sentinelFloat(met.get(row, "DPD")),
			windSpeedMPH: toWindSpeedMPH(sentinelFloat(met.get(row, "WSPD"))),
		}
	}
	return samples
}

func windSpeedMPHOrZero(mps *float64) float64 {
	mph := toWindSpeedMPH(mps)
	if mph == nil {
		return 0
	}
	return *mph
}

// parseSpectral extracts the swell and wind-wave partitions and the sea
// steepness label from an NDBC .spec row. Column names follow the standard
// spectral wave summary format: SwH/SwP/SwD for swell, WWH/WWP/WWD for
// wind waves, STEEPNESS for the qualitative label.
func parseSpectral(t table, row []string) (swell, windWave *marine.WavePartition, steepness string) {
	swell = partitionOrNil(sentinelFloat(t.get(row, "SWH")), sentinelFloat(t.get(row, "SWP")), sentinelFloat(t.get(row, "SWD")))
	windWave = partitionOrNil(sentinelFloat(t.get(row, "WWH")), sentinelFloat(t.get(row, "WWP")), sentinelFloat(t.get(row, "WWD")))
	steepness = sentinelString(t.get(row, "STEEPNESS"))
	return
}

func partitionOrNil(height, period, dir *float64) *marine.WavePartition {
	if height == nil && period == nil && dir == nil {
		return nil
	}
	return &marine.WavePartition{HeightM: height, PeriodSec: period, DirectionDeg: dir}
}

// dominantPartition classifies which spectral component dominates a
// reading, for the presentation layer's mariner summary.
func dominantPartition(swell, windWave *marine.WavePartition) marine.DominantPartition {
	hasSwell := swell != nil && swell.HeightM != nil && *swell.HeightM > 0
	hasWindWave := windWave != nil && windWave.HeightM != nil && *windWave.HeightM > 0

	switch {
	case hasSwell && hasWindWave:
		return marine.DominantMixed
	case hasSwell:
		return marine.DominantSwellOnly
	case hasWindWave:
		return marine.DominantWindWaveOnly
	default:
		return marine.DominantUnknown
	}
}
