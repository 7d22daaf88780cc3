package marine

import "time"

// ForecastPeriod is one 3-hour step of a model run.
type ForecastPeriod struct {
	Time time.Time

	WaveHeightM       *float64
	WavePeriodSec     *float64
	WaveDirectionDeg  *float64

	WindWave *WavePartition
	Swell1   *WavePartition
	Swell2   *WavePartition
	Swell3   *WavePartition

	WindSpeedMPS     *float64
	WindDirectionDeg *float64
	WindU            *float64
	WindV            *float64
}

// Forecast is the ordered 7-day, 3-hourly forecast for one grid cell.
type Forecast struct {
	ModelID   string
	Generated time.Time
	Lat       float64
	Lon       float64
	Periods   []ForecastPeriod
}
