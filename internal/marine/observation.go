// Package marine holds the domain types shared by the buoy fetcher, the
// forecast fetcher, and the station aggregator: Observation, Forecast, and
// the composed Envelope. Every optional numeric field is a *float64 —
// absent, never zero, to distinguish a missing upstream reading from 0.
package marine

import "time"

// Wind is a single wind reading.
type Wind struct {
	DirectionDeg *float64
	SpeedMPS     *float64
	GustMPS      *float64
}

// WavePartition is one component of the wave energy spectrum: the
// dominant/primary wave, a wind-wave component, or a swell train.
type WavePartition struct {
	HeightM      *float64
	PeriodSec    *float64
	DirectionDeg *float64
}

// Wave bundles the primary wave summary with its spectral decomposition.
type Wave struct {
	HeightM          *float64
	DominantPeriodSec *float64
	AveragePeriodSec *float64
	DirectionDeg     *float64
	Steepness        string

	Swell    *WavePartition
	WindWave *WavePartition
}

// Atmosphere is the meteorological reading accompanying a wave/wind report.
type Atmosphere struct {
	PressureHpa *float64
	AirTempC    *float64
	WaterTempC  *float64
	DewPointC   *float64
}

// TrendDirection is a ternary label for how a quantity is changing.
type TrendDirection string

const (
	TrendSteady   TrendDirection = "steady"
	TrendBuilding TrendDirection = "building"
	TrendDropping TrendDirection = "dropping"

	TrendLengthening TrendDirection = "lengthening"
	TrendShortening  TrendDirection = "shortening"

	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
)

// Trend describes short-window direction of change for the three
// quantities mariners care about most. A nil field means fewer than two
// valid samples were available to compute it.
type Trend struct {
	WaveHeight *TrendDirection
	WavePeriod *TrendDirection
	WindSpeed  *TrendDirection
}

// BeaufortCategory is the wind-condition classification derived from wind
// speed.
type BeaufortCategory struct {
	Force           int
	Name            string
	SeaDescription  string
}

// DominantPartition names which wave energy component dominates a reading,
// used by the presentation layer to render the mariner summary.
type DominantPartition string

const (
	DominantMixed        DominantPartition = "mixed"
	DominantSwellOnly    DominantPartition = "swell-only"
	DominantWindWaveOnly DominantPartition = "wind-wave-only"
	DominantUnknown      DominantPartition = "unknown"
)

// Observation is the normalized, per-station buoy reading.
type Observation struct {
	StationID string
	Time      time.Time

	Wind       Wind
	Wave       Wave
	Atmosphere Atmosphere

	Trend            Trend
	Beaufort         BeaufortCategory
	Dominant         DominantPartition
}
