package buoyfetcher

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"
)

// table is a parsed NDBC tabular file: a header (column names, exact
// on-disk casing) and data rows in file order (most recent first, per NDBC
// convention).
type table struct {
	header  []string
	index   map[string]int // exact spelling, e.g. "mm" (minute) vs "MM" (month)
	ciIndex map[string]int // case-insensitive, only for unambiguous columns
	rows    [][]string
}

// get looks up a column by exact header spelling first (needed since NDBC's
// "MM" (month) and "mm" (minute) columns would otherwise collide under a
// case-insensitive match), falling back to a case-insensitive match for
// columns whose casing is unambiguous.
func (t table) get(row []string, col string) string {
	if i, ok := t.index[col]; ok && i >= 0 && i < len(row) {
		return row[i]
	}
	if i, ok := t.ciIndex[strings.ToUpper(col)]; ok && i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

// parseTable reads an NDBC realtime2-style whitespace-separated file.
// Header lines are prefixed with "#"; the first one starting with "YY" or
// "YYYY" names the columns. Column casing is preserved exactly as printed
// (NDBC distinguishes "MM" for month from "mm" for minute in the same
// header row). Grounded on the NDBC standard meteorological and spectral
// wave text formats.
func parseTable(r io.Reader) (table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	var rows [][]string

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			trimmed := strings.TrimSpace(strings.TrimPrefix(line, "#"))
			upper := strings.ToUpper(trimmed)
			if header == nil && strings.HasPrefix(upper, "YY") {
				header = strings.Fields(trimmed)
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	if err := scanner.Err(); err != nil {
		return table{}, err
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}

	ci := make(map[string]int, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		u := strings.ToUpper(h)
		if seen[u] {
			delete(ci, u)
			continue
		}
		seen[u] = true
		ci[u] = i
	}

	return table{header: header, index: idx, ciIndex: ci, rows: rows}, nil
}

// sentinelFloat parses s as a float64, treating the NDBC "MM" token (and an
// empty field) as absent. Never returns zero for a missing value.
func sentinelFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "MM" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func sentinelString(s string) string {
	s = strings.TrimSpace(s)
	if s == "MM" {
		return ""
	}
	return s
}

// isEmptyBody reports whether a response body was empty or whitespace-only.
func isEmptyBody(body []byte) bool {
	return len(bytes.TrimSpace(body)) == 0
}
