// Package datenorm normalizes free-form date/time strings into one output
// representation. Malformed input never fails the call: it renders as
// Sentinel instead.
//
//	datenorm.FormatDate("Nov 21, 2025 13:45")      // "21/11/2025 13:45"
//	datenorm.FormatDate("20251121134500")          // "21/11/2025 13:45"
//	datenorm.FormatDate("not a date")              // "Invalid date"
//
// Output templates use the field tokens Y, M, D, H, m, s, Mon, Month, Weekday
// and Offset, a strftime pattern such as "%Y-%m-%d", or the key of a built-in
// template such as "rfc".
package datenorm

import (
	"time"

	"github.com/gyeh/datenorm/internal/normalize"
)

const (
	// Sentinel is returned when no supported layout matches the input.
	Sentinel = normalize.Sentinel
	// DefaultOutputTemplate is the output template used by FormatDate.
	DefaultOutputTemplate = normalize.DefaultOutputPattern
)

var (
	ErrEmptyInput            = normalize.ErrEmptyInput
	ErrNoMatch               = normalize.ErrNoMatch
	ErrInvalidOutputTemplate = normalize.ErrInvalidOutputTemplate
)

var resolver = normalize.NewResolver(nil)

// FormatDate renders date with DefaultOutputTemplate, or returns Sentinel.
func FormatDate(date string) string {
	return resolver.Format(date, normalize.DefaultOutput())
}

// FormatDateAs renders date with outputTemplate. The error is only ever
// ErrInvalidOutputTemplate; an unparseable date yields Sentinel and nil.
func FormatDateAs(date, outputTemplate string) (string, error) {
	out, err := normalize.ParseOutput(outputTemplate, resolver.Registry())
	if err != nil {
		return "", err
	}
	return resolver.Format(date, out), nil
}

// Parse returns the instant date describes. Unlike FormatDate it reports
// why a date was rejected: ErrEmptyInput or ErrNoMatch.
func Parse(date string) (time.Time, error) {
	m, err := resolver.Resolve(date)
	if err != nil {
		return time.Time{}, err
	}
	return m.Instant, nil
}
