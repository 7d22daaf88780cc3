package marine

import "time"

// Units documents the fixed display units every numeric field in an
// Envelope is expressed in.
type Units struct {
	WaveHeight string
	WindSpeed  string
	Direction  string
	Period     string
}

// DefaultUnits is the fixed display unit set every Envelope is rendered in.
var DefaultUnits = Units{
	WaveHeight: "ft",
	WindSpeed:  "mph",
	Direction:  "deg",
	Period:     "s",
}

// StationHeader is the minimal station identity carried in an Envelope.
type StationHeader struct {
	ID   string
	Name string
	Lon  float64
	Lat  float64
}

// ForecastError describes why a forecast could not be attached to an
// envelope, without failing the whole request.
type ForecastError struct {
	Kind    string
	Message string
}

// Envelope is the merged, cached, per-station response.
type Envelope struct {
	Station     StationHeader
	Generated   time.Time
	Observation *Observation
	Forecast    *Forecast
	ForecastErr *ForecastError
	Units       Units
}
