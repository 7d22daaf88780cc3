package forecastfetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oceanwx/marine-aggregator/internal/cadence"
)

func TestBuildURL_EmbedsDateCycleAndIndices(t *testing.T) {
	run := cadence.ModelRun{Date: time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC), Cycle: 12}
	url := buildURL("https://example.test/base", run, "wcoast.0p16", 48, 195)

	assert.Contains(t, url, "https://example.test/base/20260806/gfswave.wcoast.0p16_12z.ascii?")
	assert.Contains(t, url, "htsgwsfc[0:55][48][195]")
	assert.Contains(t, url, "vgrdsfc[0:55][48][195]")
}

func TestBuildURL_RequestsAllNineteenVariables(t *testing.T) {
	assert.Len(t, variables, 19)
}

func TestStepTime_ThreeHourSpacing(t *testing.T) {
	runDate := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	got := stepTime(runDate, 12, 4)
	assert.Equal(t, time.Date(2026, 8, 6, 24, 0, 0, 0, time.UTC), got)
}
