package normalize

import (
	"strings"
	"time"
)

// ISO-8601 shapes accepted without consulting the registry. Offsets are
// tried as ±hh:mm, ±hhmm, then ±hh.
var isoLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04Z07",
	"2006-01-02T15:04",
	"2006-01-02T15Z07:00",
	"2006-01-02T15Z0700",
	"2006-01-02T15",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05 Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04 Z07:00",
	"2006-01-02 15:04 Z0700",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Basic-format shapes (no dash or colon separators). The T is required so
// bare digit strings stay with the compact templates.
var isoBasicLayouts = []string{
	"20060102T150405Z0700",
	"20060102T150405Z07",
	"20060102T150405",
	"20060102T1504Z0700",
	"20060102T1504Z07",
	"20060102T1504",
	"20060102T15",
}

// parseISO is the fast path for machine-readable timestamps.
// Fractional seconds are accepted after any seconds field, and a trailing
// lowercase z is read as Z.
func parseISO(s string) (time.Time, bool) {
	var layouts []string
	switch {
	case len(s) >= 10 && s[4] == '-':
		layouts = isoLayouts
	case len(s) >= 11 && s[8] == 'T' && isDigits(s[:8]):
		layouts = isoBasicLayouts
	default:
		return time.Time{}, false
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
