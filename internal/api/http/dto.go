package httpapi

import (
	"time"

	"github.com/oceanwx/marine-aggregator/internal/marine"
	"github.com/oceanwx/marine-aggregator/internal/presentation"
	"github.com/oceanwx/marine-aggregator/internal/units"
)

// stationEnvelope is the client-facing rendering of a marine.Envelope: the
// cached domain object stays in SI units end to end, and only the JSON
// boundary converts to the mariner-facing display units (feet, mph,
// normalized degrees).
type stationEnvelope struct {
	Station     stationHeader    `json:"station"`
	Generated   time.Time        `json:"generated"`
	Units       marine.Units     `json:"units"`
	Observation *observationView `json:"observation,omitempty"`
	Forecast    *forecastView    `json:"forecast,omitempty"`
	ForecastErr *forecastError   `json:"forecastError,omitempty"`
}

type stationHeader struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type forecastError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type windView struct {
	DirectionDeg *float64 `json:"directionDeg,omitempty"`
	SpeedMPH     *float64 `json:"speedMph,omitempty"`
	GustMPH      *float64 `json:"gustMph,omitempty"`
}

type wavePartitionView struct {
	HeightFt     *float64 `json:"heightFt,omitempty"`
	PeriodSec    *float64 `json:"periodSec,omitempty"`
	DirectionDeg *float64 `json:"directionDeg,omitempty"`
}

type waveView struct {
	HeightFt          *float64           `json:"heightFt,omitempty"`
	DominantPeriodSec *float64           `json:"dominantPeriodSec,omitempty"`
	AveragePeriodSec  *float64           `json:"averagePeriodSec,omitempty"`
	DirectionDeg      *float64           `json:"directionDeg,omitempty"`
	Steepness         string             `json:"steepness,omitempty"`
	Swell             *wavePartitionView `json:"swell,omitempty"`
	WindWave          *wavePartitionView `json:"windWave,omitempty"`
}

type atmosphereView struct {
	PressureHpa *float64 `json:"pressureHpa,omitempty"`
	AirTempC    *float64 `json:"airTempC,omitempty"`
	WaterTempC  *float64 `json:"waterTempC,omitempty"`
	DewPointC   *float64 `json:"dewPointC,omitempty"`
}

type observationView struct {
	StationID string    `json:"stationId"`
	Time      time.Time `json:"time"`

	Wind       windView       `json:"wind"`
	Wave       waveView       `json:"wave"`
	Atmosphere atmosphereView `json:"atmosphere"`

	Trend    marine.Trend             `json:"trend"`
	Beaufort marine.BeaufortCategory  `json:"beaufort"`
	Dominant marine.DominantPartition `json:"dominant"`
	Summary  string                   `json:"summary"`
}

type forecastPeriodView struct {
	Time time.Time `json:"time"`

	WaveHeightFt     *float64 `json:"waveHeightFt,omitempty"`
	WavePeriodSec    *float64 `json:"wavePeriodSec,omitempty"`
	WaveDirectionDeg *float64 `json:"waveDirectionDeg,omitempty"`

	WindWave *wavePartitionView `json:"windWave,omitempty"`
	Swell1   *wavePartitionView `json:"swell1,omitempty"`
	Swell2   *wavePartitionView `json:"swell2,omitempty"`
	Swell3   *wavePartitionView `json:"swell3,omitempty"`

	WindSpeedMPH     *float64 `json:"windSpeedMph,omitempty"`
	WindDirectionDeg *float64 `json:"windDirectionDeg,omitempty"`
}

type forecastView struct {
	ModelID   string               `json:"modelId"`
	Generated time.Time            `json:"generated"`
	Periods   []forecastPeriodView `json:"periods"`
}

func toWavePartitionView(p *marine.WavePartition) *wavePartitionView {
	if p == nil {
		return nil
	}
	return &wavePartitionView{
		HeightFt:     units.MetersToFeet(p.HeightM),
		PeriodSec:    p.PeriodSec,
		DirectionDeg: units.NormalizeDegrees(p.DirectionDeg),
	}
}

func toObservationView(o *marine.Observation) *observationView {
	if o == nil {
		return nil
	}
	return &observationView{
		StationID: o.StationID,
		Time:      o.Time,
		Wind: windView{
			DirectionDeg: units.NormalizeDegrees(o.Wind.DirectionDeg),
			SpeedMPH:     units.MPSToMPH(o.Wind.SpeedMPS),
			GustMPH:      units.MPSToMPH(o.Wind.GustMPS),
		},
		Wave: waveView{
			HeightFt:          units.MetersToFeet(o.Wave.HeightM),
			DominantPeriodSec: o.Wave.DominantPeriodSec,
			AveragePeriodSec:  o.Wave.AveragePeriodSec,
			DirectionDeg:      units.NormalizeDegrees(o.Wave.DirectionDeg),
			Steepness:         o.Wave.Steepness,
			Swell:             toWavePartitionView(o.Wave.Swell),
			WindWave:          toWavePartitionView(o.Wave.WindWave),
		},
		Atmosphere: atmosphereView{
			PressureHpa: o.Atmosphere.PressureHpa,
			AirTempC:    o.Atmosphere.AirTempC,
			WaterTempC:  o.Atmosphere.WaterTempC,
			DewPointC:   o.Atmosphere.DewPointC,
		},
		Trend:    o.Trend,
		Beaufort: o.Beaufort,
		Dominant: o.Dominant,
		Summary:  presentation.StationSummary(*o),
	}
}

func toForecastPeriodView(p marine.ForecastPeriod) forecastPeriodView {
	return forecastPeriodView{
		Time:             p.Time,
		WaveHeightFt:     units.MetersToFeet(p.WaveHeightM),
		WavePeriodSec:    p.WavePeriodSec,
		WaveDirectionDeg: units.NormalizeDegrees(p.WaveDirectionDeg),
		WindWave:         toWavePartitionView(p.WindWave),
		Swell1:           toWavePartitionView(p.Swell1),
		Swell2:           toWavePartitionView(p.Swell2),
		Swell3:           toWavePartitionView(p.Swell3),
		WindSpeedMPH:     units.MPSToMPH(p.WindSpeedMPS),
		WindDirectionDeg: units.NormalizeDegrees(p.WindDirectionDeg),
	}
}

func toForecastView(f *marine.Forecast) *forecastView {
	if f == nil {
		return nil
	}
	periods := make([]forecastPeriodView, len(f.Periods))
	for i, p := range f.Periods {
		periods[i] = toForecastPeriodView(p)
	}
	return &forecastView{
		ModelID:   f.ModelID,
		Generated: f.Generated,
		Periods:   periods,
	}
}

func toStationEnvelope(env marine.Envelope) stationEnvelope {
	out := stationEnvelope{
		Station: stationHeader{
			ID:   env.Station.ID,
			Name: env.Station.Name,
			Lat:  env.Station.Lat,
			Lon:  env.Station.Lon,
		},
		Generated:   env.Generated,
		Units:       env.Units,
		Observation: toObservationView(env.Observation),
		Forecast:    toForecastView(env.Forecast),
	}
	if env.ForecastErr != nil {
		out.ForecastErr = &forecastError{Kind: env.ForecastErr.Kind, Message: env.ForecastErr.Message}
	}
	return out
}
