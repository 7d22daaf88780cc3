package forecastfetcher

import (
	"time"

	"github.com/oceanwx/marine-aggregator/internal/marine"
)

// assemble builds the ordered period sequence from parsed variable series.
// A period is emitted only for steps where the primary wave height sample
// is present; swell/wind-wave partitions are attached only when their own
// height sample is present at that step.
func assemble(modelID string, runDate time.Time, cycle int, series map[string]map[int]float64) []marine.ForecastPeriod {
	primary := series["htsgwsfc"]
	periods := make([]marine.ForecastPeriod, 0, steps)

	for i := 0; i < steps; i++ {
		height, ok := primary[i]
		if !ok {
			continue
		}
		h := height
		p := marine.ForecastPeriod{
			Time:             stepTime(runDate, cycle, i),
			WaveHeightM:      &h,
			WavePeriodSec:    valueAt(series, "perpwsfc", i),
			WaveDirectionDeg: valueAt(series, "dirpwsfc", i),
			WindWave:         partitionAt(series, "wvhgtsfc", "wvpersfc", "wvdirsfc", i),
			Swell1:           partitionAt(series, "swell_1", "swper_1", "swdir_1", i),
			Swell2:           partitionAt(series, "swell_2", "swper_2", "swdir_2", i),
			Swell3:           partitionAt(series, "swell_3", "swper_3", "swdir_3", i),
			WindSpeedMPS:     valueAt(series, "windsfc", i),
			WindDirectionDeg: valueAt(series, "wdirsfc", i),
			WindU:            valueAt(series, "ugrdsfc", i),
			WindV:            valueAt(series, "vgrdsfc", i),
		}
		periods = append(periods, p)
	}
	return periods
}

func valueAt(series map[string]map[int]float64, name string, i int) *float64 {
	s, ok := series[name]
	if !ok {
		return nil
	}
	v, ok := s[i]
	if !ok {
		return nil
	}
	return &v
}

func partitionAt(series map[string]map[int]float64, heightVar, periodVar, dirVar string, i int) *marine.WavePartition {
	height := valueAt(series, heightVar, i)
	if height == nil {
		return nil
	}
	return &marine.WavePartition{
		HeightM:      height,
		PeriodSec:    valueAt(series, periodVar, i),
		DirectionDeg: valueAt(series, dirVar, i),
	}
}
