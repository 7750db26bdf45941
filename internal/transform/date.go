package transform

import (
	"strconv"
	"time"
)

// epochMillisThreshold disambiguates integer epoch values: anything at or
// above this magnitude is treated as milliseconds rather than seconds
// (seconds-since-epoch for any date before year ~33658 stays below 10^12).
const epochMillisThreshold = 1_000_000_000_000

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// parseFlexibleDate accepts ISO-8601 dates/datetimes or integer epoch
// values (seconds or milliseconds) and returns the parsed calendar date
// (time of day dropped, as midnight UTC) with ok=true, or ok=false if
// nothing recognisable was found.
func parseFlexibleDate(raw string) (time.Time, bool) {
	s := raw
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		t := time.Unix(n, 0).UTC()
		if n >= epochMillisThreshold {
			t = time.UnixMilli(n).UTC()
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	return time.Time{}, false
}
