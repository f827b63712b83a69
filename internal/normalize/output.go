package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultOutputPattern is the output template used when none is given.
const DefaultOutputPattern = "D/M/Y H:m"

// ErrInvalidOutputTemplate is returned for output templates that cannot render a date.
var ErrInvalidOutputTemplate = errors.New("invalid output template")

// Output renders resolved instants. It is built from a registry key, a
// strftime pattern (anything containing '%') or a field-token pattern.
type Output struct {
	pattern  string
	strftime bool
	tokens   []token
}

// ParseOutput compiles pattern into an Output. reg may be nil, in which case
// registry keys are not recognized.
func ParseOutput(pattern string, reg *Registry) (Output, error) {
	if reg != nil {
		if t, ok := reg.Lookup(pattern); ok {
			return Output{pattern: t.Pattern, tokens: t.tokens}, nil
		}
	}
	if strings.Contains(pattern, "%") {
		return Output{pattern: pattern, strftime: true}, nil
	}
	tokens := tokenize(pattern)
	if !hasField(tokens) {
		return Output{}, fmt.Errorf("%w: %q has no date fields", ErrInvalidOutputTemplate, pattern)
	}
	return Output{pattern: pattern, tokens: tokens}, nil
}

// DefaultOutput renders with DefaultOutputPattern.
func DefaultOutput() Output {
	return defaultOutput
}

var defaultOutput = Output{pattern: DefaultOutputPattern, tokens: tokenize(DefaultOutputPattern)}

// Render formats t. Offsets are rendered as parsed, never converted.
func (o Output) Render(t time.Time) string {
	if o.strftime {
		return strftime.Format(o.pattern, t)
	}
	return render(o.tokens, t)
}

// String returns the pattern the output renders with.
func (o Output) String() string {
	return o.pattern
}
