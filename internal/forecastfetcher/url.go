package forecastfetcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/oceanwx/marine-aggregator/internal/cadence"
)

const defaultBase = "https://nomads.ncep.noaa.gov/dods/wave/gfswave"

// steps is the fixed index window requested for every variable: 56 steps
// (7 days at 3-hour spacing) starting at the model run's own hour zero.
const steps = 56

// variables is the fixed set of 19 GFS-Wave ASCII variables requested per
// cell: combined wave, wind-wave, three swell partitions, and wind.
var variables = []string{
	"htsgwsfc", "perpwsfc", "dirpwsfc",
	"wvhgtsfc", "wvpersfc", "wvdirsfc",
	"swell_1", "swper_1", "swdir_1",
	"swell_2", "swper_2", "swdir_2",
	"swell_3", "swper_3", "swdir_3",
	"windsfc", "wdirsfc", "ugrdsfc", "vgrdsfc",
}

// buildURL constructs the NOMADS ASCII query for one model run and grid
// cell, requesting every variable over the fixed [0:55][row][col] index
// window in a single GET.
func buildURL(base string, run cadence.ModelRun, modelName string, row, col int) string {
	date := run.Date.Format("20060102")
	hour := fmt.Sprintf("%02d", run.Cycle)

	varspecs := make([]string, len(variables))
	for i, v := range variables {
		varspecs[i] = fmt.Sprintf("%s[0:%d][%d][%d]", v, steps-1, row, col)
	}

	return fmt.Sprintf("%s/%s/gfswave.%s_%sz.ascii?%s", base, date, modelName, hour, strings.Join(varspecs, ","))
}

func stepTime(runDate time.Time, cycle, step int) time.Time {
	nominal := time.Date(runDate.Year(), runDate.Month(), runDate.Day(), cycle, 0, 0, 0, time.UTC)
	return nominal.Add(time.Duration(step) * 3 * time.Hour)
}
