package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv removes every var Load reads so tests don't inherit state from
// the host environment or leak between each other.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"PORT", "CATALOGUE_PATH", "NDBC_BASE_URL", "NOMADS_BASE_URL", "NOAA_TIDES_BASE_URL",
		"FORECAST_DAYS", "FORECAST_PERIODS_PER_DAY", "FORECAST_PERIOD_HOURS",
		"REQUEST_TIMEOUT", "REQUEST_MAX_RETRIES", "REQUEST_RETRY_DELAY",
		"CACHE_HOURS_CEILING", "MODEL_RUN_AVAILABLE_AFTER",
		"PREFETCH_BATCH_SIZE", "PREFETCH_CONCURRENT_BATCHES",
		"PREFETCH_INTER_WAVE_DELAY", "PREFETCH_SKIP_THRESHOLD",
		"SCHEDULER_RECOVERY_DELAY",
	}
	for _, k := range keys {
		orig, had := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if had {
				os.Setenv(k, orig)
			}
		})
	}
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "stations.geojson", cfg.CataloguePath)
	assert.Equal(t, "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter", cfg.NOAATidesURL)
	assert.Equal(t, 7, cfg.ForecastDays)
	assert.Equal(t, 8, cfg.ForecastPeriodsPerDay)
	assert.Equal(t, 3, cfg.ForecastPeriodHours)
	assert.Equal(t, 60_000*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2_000*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 6*time.Hour, cfg.CacheHoursCeiling)
	assert.Equal(t, []int{0, 6, 12, 18}, cfg.ModelRunHours)
	assert.Equal(t, 5*time.Hour, cfg.ModelRunAvailableAfter)
	assert.Equal(t, 5, cfg.PrefetchBatchSize)
	assert.Equal(t, 3, cfg.PrefetchConcurrentBatches)
	assert.Equal(t, 1*time.Second, cfg.PrefetchInterWaveDelay)
	assert.Equal(t, 300*time.Second, cfg.PrefetchSkipThreshold)
	assert.Equal(t, 5*time.Minute, cfg.RecoveryDelay)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("PORT", "9090")
	os.Setenv("FORECAST_DAYS", "3")
	os.Setenv("REQUEST_MAX_RETRIES", "5")
	os.Setenv("REQUEST_RETRY_DELAY", "500ms")
	os.Setenv("CACHE_HOURS_CEILING", "2h")
	os.Setenv("PREFETCH_SKIP_THRESHOLD", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3, cfg.ForecastDays)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2*time.Hour, cfg.CacheHoursCeiling)
	assert.Equal(t, 90*time.Second, cfg.PrefetchSkipThreshold)
}

func TestLoad_InvalidDurationIsAnError(t *testing.T) {
	clearEnv(t)
	os.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	os.Setenv("FORECAST_DAYS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ForecastDays)
}
