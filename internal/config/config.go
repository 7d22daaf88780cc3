// Package config loads process configuration from the environment, with
// defaults matching the fixed knobs the refresh-and-caching core assumes.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds every environment-overridable setting the service reads
// at startup.
type AppConfig struct {
	Port string

	// CataloguePath is the GeoJSON FeatureCollection of stations to serve.
	CataloguePath string

	NDBCBaseURL   string
	NOMADSBaseURL string
	NOAATidesURL  string

	// ForecastDays, ForecastPeriodsPerDay, and ForecastPeriodHours describe
	// the shape of a forecast series; periodHours is not derived from the
	// other two (each is independently configurable, matching upstream's
	// own enumeration).
	ForecastDays          int
	ForecastPeriodsPerDay int
	ForecastPeriodHours   int

	RequestTimeout time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// CacheHoursCeiling is the maximum TTL any cache entry may carry,
	// independent of what a producer computes.
	CacheHoursCeiling time.Duration

	// ModelRunHours are the nominal UTC hours GFS-Wave produces a run at.
	ModelRunHours []int
	// ModelRunAvailableAfter is how long after its nominal hour a run's
	// output becomes retrievable.
	ModelRunAvailableAfter time.Duration

	// PrefetchBatchSize, PrefetchConcurrentBatches, and PrefetchInterWaveDelay
	// govern the bulk prefetcher's wave shape.
	PrefetchBatchSize         int
	PrefetchConcurrentBatches int
	PrefetchInterWaveDelay    time.Duration

	// PrefetchSkipThreshold: a station whose observation and forecast TTLs
	// are both still above this is skipped in a prefetch cycle.
	PrefetchSkipThreshold time.Duration

	// RecoveryDelay is how long the scheduler waits before retrying a
	// prefetch cycle in which every station failed.
	RecoveryDelay time.Duration
}

// Load reads configuration from the environment (and a .env file if
// present), applying the fixed defaults documented for this service.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: no .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "8080"),
		CataloguePath: getenvDefault("CATALOGUE_PATH", "stations.geojson"),
		NDBCBaseURL:   getenvDefault("NDBC_BASE_URL", "https://www.ndbc.noaa.gov/data/realtime2"),
		NOMADSBaseURL: getenvDefault("NOMADS_BASE_URL", "https://nomads.ncep.noaa.gov/dods/wave/gfswave"),
		NOAATidesURL:  getenvDefault("NOAA_TIDES_BASE_URL", "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"),

		ForecastDays:          getenvInt("FORECAST_DAYS", 7),
		ForecastPeriodsPerDay: getenvInt("FORECAST_PERIODS_PER_DAY", 8),
		ForecastPeriodHours:   getenvInt("FORECAST_PERIOD_HOURS", 3),

		MaxRetries: getenvInt("REQUEST_MAX_RETRIES", 3),

		PrefetchBatchSize:         getenvInt("PREFETCH_BATCH_SIZE", 5),
		PrefetchConcurrentBatches: getenvInt("PREFETCH_CONCURRENT_BATCHES", 3),

		ModelRunHours: []int{0, 6, 12, 18},
	}

	timeout, err := getenvDuration("REQUEST_TIMEOUT", 60_000*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	cfg.RequestTimeout = timeout

	retryDelay, err := getenvDuration("REQUEST_RETRY_DELAY", 2_000*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_RETRY_DELAY: %w", err)
	}
	cfg.RetryDelay = retryDelay

	cacheCeiling, err := getenvDuration("CACHE_HOURS_CEILING", 6*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_HOURS_CEILING: %w", err)
	}
	cfg.CacheHoursCeiling = cacheCeiling

	availableAfter, err := getenvDuration("MODEL_RUN_AVAILABLE_AFTER", 5*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid MODEL_RUN_AVAILABLE_AFTER: %w", err)
	}
	cfg.ModelRunAvailableAfter = availableAfter

	interWaveDelay, err := getenvDuration("PREFETCH_INTER_WAVE_DELAY", 1*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PREFETCH_INTER_WAVE_DELAY: %w", err)
	}
	cfg.PrefetchInterWaveDelay = interWaveDelay

	skipThreshold, err := getenvDuration("PREFETCH_SKIP_THRESHOLD", 300*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PREFETCH_SKIP_THRESHOLD: %w", err)
	}
	cfg.PrefetchSkipThreshold = skipThreshold

	recoveryDelay, err := getenvDuration("SCHEDULER_RECOVERY_DELAY", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_RECOVERY_DELAY: %w", err)
	}
	cfg.RecoveryDelay = recoveryDelay

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
