package forecastfetcher

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/oceanwx/marine-aggregator/internal/apperr"
)

// rowPattern matches a data line of the form "[<i>][0], <float>". Parsed by
// hand rather than with regexp: the format is fixed and simple enough that
// a small manual scan avoids the extra dependency for one call site.
func parseRow(line string) (int, float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "[") {
		return 0, 0, false
	}
	end := strings.Index(line, "]")
	if end < 0 {
		return 0, 0, false
	}
	i, err := strconv.Atoi(line[1:end])
	if err != nil {
		return 0, 0, false
	}
	comma := strings.LastIndex(line, ",")
	if comma < 0 || comma+1 >= len(line) {
		return 0, 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(line[comma+1:]), 64)
	if err != nil {
		return 0, 0, false
	}
	return i, v, true
}

// parseASCII parses a NOMADS ASCII response into per-variable, per-step
// series. A variable's block is introduced by a line naming it followed by
// a comma; every following "[<i>][0], <float>" line until the next header
// (or end of input) populates series[name][i].
func parseASCII(body []byte) (map[string]map[int]float64, error) {
	series := make(map[string]map[int]float64, len(variables))
	known := make(map[string]bool, len(variables))
	for _, v := range variables {
		known[v] = true
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var current string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if i, v, ok := parseRow(line); ok {
			if current == "" {
				continue
			}
			series[current][i] = v
			continue
		}
		// Header line: "<name>, <dims...>" — take the token before the
		// first comma as the variable name if it's one we requested.
		name := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
		if known[name] {
			current = name
			if series[current] == nil {
				series[current] = make(map[int]float64, steps)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "reading forecast response", err)
	}
	if len(series) == 0 {
		return nil, apperr.New(apperr.CodeInternal, "no recognized variable blocks in forecast response")
	}
	return series, nil
}
