package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when reading a finish date
var dateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2006-1-2",
	"01/02/2006",
}

// ParseDate parses a finish date, dropping any time of day.
// ok is false for empty or unparseable input.
func ParseDate(s string) (t *time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		return &d, true
	}
	return nil, false
}

// ParsePages parses a non-negative page count.
// Integral floats such as "412.0" are accepted since spreadsheet exports write them.
func ParsePages(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("page count is empty")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
			return 0, fmt.Errorf("page count %q is not an integer", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("page count %d is negative", n)
	}
	return n, nil
}
