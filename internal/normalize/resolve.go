package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel is returned in place of a formatted date when nothing parses.
const Sentinel = "Invalid date"

var (
	// ErrEmptyInput is returned for blank input.
	ErrEmptyInput = errors.New("empty date input")
	// ErrNoMatch is returned when no template accepts the input.
	ErrNoMatch = errors.New("no template matched")
)

// Stage identifies which pass of the search produced a match.
type Stage int

const (
	StageFastPath Stage = iota + 1
	StageTargeted
	StageFallback
)

func (s Stage) String() string {
	switch s {
	case StageFastPath:
		return "fast_path"
	case StageTargeted:
		return "targeted"
	case StageFallback:
		return "fallback"
	}
	return "none"
}

// Match is a successful resolution. Template is the zero value when the
// fast path matched.
type Match struct {
	Instant  time.Time
	Template Template
	Stage    Stage
}

// Resolver runs the search over a registry. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	registry *Registry

	// onAttempt observes every strict parse attempt; tests only.
	onAttempt func(Template)
}

// NewResolver returns a Resolver over reg, or over Default() when reg is nil.
func NewResolver(reg *Registry) *Resolver {
	if reg == nil {
		reg = Default()
	}
	return &Resolver{registry: reg}
}

// Registry returns the registry the resolver searches.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve finds the instant described by input. It tries the ISO fast path,
// then the templates picked by Select, then every remaining template. The
// rfc family is only tried in the last pass when input contains a comma.
//
// Leading and trailing whitespace is trimmed first; every stage then
// requires the trimmed input to match a layout in full.
func (r *Resolver) Resolve(input string) (Match, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Match{}, ErrEmptyInput
	}

	if t, ok := parseISO(s); ok {
		return Match{Instant: t, Stage: StageFastPath}, nil
	}

	candidates := r.registry.Select(s)
	tried := make(map[string]struct{}, len(candidates))
	for _, tmpl := range candidates {
		tried[tmpl.Key] = struct{}{}
		if t, ok := r.attempt(tmpl, s); ok {
			return Match{Instant: t, Template: tmpl, Stage: StageTargeted}, nil
		}
	}

	comma := strings.Contains(s, ",")
	for _, tmpl := range r.registry.templates {
		if _, done := tried[tmpl.Key]; done {
			continue
		}
		if tmpl.Family == RFC && !comma {
			continue
		}
		if t, ok := r.attempt(tmpl, s); ok {
			return Match{Instant: t, Template: tmpl, Stage: StageFallback}, nil
		}
	}

	return Match{}, fmt.Errorf("%w: %q", ErrNoMatch, s)
}

func (r *Resolver) attempt(tmpl Template, s string) (time.Time, bool) {
	if r.onAttempt != nil {
		r.onAttempt(tmpl)
	}
	return tmpl.Parse(s)
}

// Format resolves input and renders it with out, or returns Sentinel.
func (r *Resolver) Format(input string, out Output) string {
	m, err := r.Resolve(input)
	if err != nil {
		return Sentinel
	}
	return out.Render(m.Instant)
}
