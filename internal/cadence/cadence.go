// Package cadence implements the pure clock functions that know the
// publication schedules of the two upstream producers: the NDBC buoy
// network (twice-hourly) and the GFS-Wave forecast model (four cycles a
// day, each retrievable five hours after its nominal hour).
//
// Every function here is a pure function of `now`; none of them read the
// wall clock themselves, which keeps them unit-testable with injected
// time and keeps the caching TTLs they feed deterministic.
package cadence

import "time"

const (
	// observationBuffer is added to the raw minutes-until-next-publish so a
	// request arriving exactly at publish time reads the fresh value.
	observationBuffer = 60 * time.Second

	// cycleBuffer is added on top of a cycle's availability instant when
	// computing how long to wait before the next one appears.
	cycleBuffer = 5 * time.Minute

	// defaultCycleLatency is how long after its nominal hour a model
	// cycle's output becomes retrievable from NOMADS.
	defaultCycleLatency = 5 * time.Hour

	// DefaultCacheTTLCeiling is the maximum TTL any cache entry may be
	// given, regardless of what a producer computes. Cycle spacing (6h)
	// plus cycleBuffer can otherwise push a forecast TTL slightly past
	// this.
	DefaultCacheTTLCeiling = 6 * time.Hour
)

// cycleLatency and cacheTTLCeiling are package-level so Configure can
// override them at startup from the model-run-availability and
// cache-hours-ceiling settings; every other cadence function stays a pure
// function of `now`.
var (
	cycleLatency    = defaultCycleLatency
	cacheTTLCeiling = DefaultCacheTTLCeiling
)

// CacheTTLCeiling reports the ceiling currently in effect.
func CacheTTLCeiling() time.Duration {
	return cacheTTLCeiling
}

// Configure overrides the nominal model-run hours, the delay after a
// cycle's nominal hour at which it becomes retrievable, and the cache TTL
// ceiling. Called once at startup from configuration; the zero value of
// any argument leaves the corresponding default in place.
func Configure(hours []int, availableAfter, ttlCeiling time.Duration) {
	if len(hours) > 0 {
		cycleHours = append([]int(nil), hours...)
	}
	if availableAfter > 0 {
		cycleLatency = availableAfter
	}
	if ttlCeiling > 0 {
		cacheTTLCeiling = ttlCeiling
	}
}

// Clamp caps d at the configured cache TTL ceiling. Callers apply this to
// a freshly computed TTL before handing it to the cache.
func Clamp(d time.Duration) time.Duration {
	if d > cacheTTLCeiling {
		return cacheTTLCeiling
	}
	return d
}

// observationMinutes are the wall-clock minute offsets at which NDBC
// republishes standard meteorological and spectral data.
var observationMinutes = [...]int{26, 56}

// cycleHours are the nominal UTC hours at which GFS-Wave produces a run.
var cycleHours = []int{0, 6, 12, 18}

// ModelRun identifies a single forecast cycle by calendar date (UTC
// midnight) and nominal hour.
type ModelRun struct {
	Date  time.Time
	Cycle int
}

// AvailableAt returns the instant at which this run's output is
// retrievable from the forecast producer.
func (m ModelRun) AvailableAt() time.Time {
	nominal := time.Date(m.Date.Year(), m.Date.Month(), m.Date.Day(), m.Cycle, 0, 0, 0, time.UTC)
	return nominal.Add(cycleLatency)
}

// SecondsUntilNextObservation returns the duration until the next
// scheduled NDBC publish, plus the safety buffer.
func SecondsUntilNextObservation(now time.Time) time.Duration {
	now = now.UTC()
	hourStart := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)

	candidates := make([]time.Time, 0, len(observationMinutes)+1)
	for _, m := range observationMinutes {
		candidates = append(candidates, hourStart.Add(time.Duration(m)*time.Minute))
	}
	// Cover the case where now is past this hour's last publish minute.
	candidates = append(candidates, hourStart.Add(time.Hour+time.Duration(observationMinutes[0])*time.Minute))

	for _, c := range candidates {
		if c.After(now) {
			return c.Sub(now) + observationBuffer
		}
	}
	// Unreachable given the candidates above always include one in the
	// following hour, but fail safe rather than panic.
	return time.Hour + observationBuffer
}

// LatestAvailableCycle returns the most recent model run whose output is
// already retrievable at `now`. If no cycle qualifies today, it returns
// yesterday's 18Z run.
func LatestAvailableCycle(now time.Time) ModelRun {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var best *ModelRun
	for _, h := range cycleHours {
		candidate := ModelRun{Date: today, Cycle: h}
		if !candidate.AvailableAt().After(now) {
			c := candidate
			best = &c
		}
	}
	if best != nil {
		return *best
	}

	yesterday := today.AddDate(0, 0, -1)
	return ModelRun{Date: yesterday, Cycle: cycleHours[len(cycleHours)-1]}
}

// nextModelRun returns the cycle immediately following mr in the fixed
// four-cycles-a-day sequence.
func nextModelRun(mr ModelRun) ModelRun {
	for i, h := range cycleHours {
		if h == mr.Cycle {
			if i == len(cycleHours)-1 {
				return ModelRun{Date: mr.Date.AddDate(0, 0, 1), Cycle: cycleHours[0]}
			}
			return ModelRun{Date: mr.Date, Cycle: cycleHours[i+1]}
		}
	}
	// mr.Cycle not one of the known hours; treat as if it were the last.
	return ModelRun{Date: mr.Date.AddDate(0, 0, 1), Cycle: cycleHours[0]}
}

// SecondsUntilNextCycleAvailable returns the duration until the next model
// run becomes available, plus the safety buffer.
func SecondsUntilNextCycleAvailable(now time.Time) time.Duration {
	now = now.UTC()
	next := nextModelRun(LatestAvailableCycle(now))
	return next.AvailableAt().Sub(now) + cycleBuffer
}
