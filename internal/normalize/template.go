package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Family groups templates that share a surface shape.
type Family int

const (
	Slash Family = iota + 1
	Dash
	Text
	Compact
	RFC
)

// AllFamilies lists the families in classification order.
var AllFamilies = []Family{Slash, Dash, Text, Compact, RFC}

func (f Family) String() string {
	switch f {
	case Slash:
		return "slash"
	case Dash:
		return "dash"
	case Text:
		return "text"
	case Compact:
		return "compact"
	case RFC:
		return "rfc"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily returns the Family for the given name, or ok=false.
func ParseFamily(name string) (Family, bool) {
	for _, f := range AllFamilies {
		if strings.EqualFold(f.String(), name) {
			return f, true
		}
	}
	return 0, false
}

// Template is a named date/time pattern. Pattern uses field tokens
// (Y M D H m s Mon Month Weekday Offset); everything else is literal.
type Template struct {
	Key     string
	Family  Family
	Pattern string

	layout string
	tokens []token
}

func (t *Template) compile() error {
	t.tokens = tokenize(t.Pattern)
	if !hasField(t.tokens) {
		return fmt.Errorf("template %q: pattern %q has no date fields", t.Key, t.Pattern)
	}
	layout, err := compileLayout(t.tokens)
	if err != nil {
		return fmt.Errorf("template %q: %w", t.Key, err)
	}
	t.layout = layout

	// Some literals read as layout directives once placed next to a field
	// ("_" before a day, "." or "," before digits). Such a template cannot
	// parse even its own output, so it is rejected here.
	for _, ref := range compileChecks {
		if out := t.Format(ref); !t.matches(out) {
			return fmt.Errorf("template %q: pattern %q cannot parse its own output %q", t.Key, t.Pattern, out)
		}
	}
	return nil
}

// compileChecks are rendered and parsed back by every template on compile.
var compileChecks = []time.Time{
	time.Date(2025, time.November, 21, 13, 45, 7, 0, time.FixedZone("", 5*3600+30*60)),
	time.Date(2009, time.January, 5, 4, 6, 8, 0, time.UTC),
}

func (t Template) matches(s string) bool {
	_, ok := t.Parse(s)
	return ok
}

// Parse strictly matches s against the template. The whole string must
// conform; any deviation is a mismatch.
func (t Template) Parse(s string) (time.Time, bool) {
	if t.layout == "" {
		return time.Time{}, false
	}
	v, err := time.Parse(t.layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return v, true
}

// Format renders v using the template's pattern.
func (t Template) Format(v time.Time) string {
	return render(t.tokens, v)
}

// Layout returns the compiled time layout used by Parse.
func (t Template) Layout() string {
	return t.layout
}

// builtinTemplates lists the stock templates. Order within a family is the
// attempt order: more specific and more common forms first.
var builtinTemplates = []Template{
	{Key: "slash_dmy_hm", Family: Slash, Pattern: "D/M/Y H:m"},
	{Key: "slash_dmy_hms", Family: Slash, Pattern: "D/M/Y H:m:s"},
	{Key: "slash_dmy", Family: Slash, Pattern: "D/M/Y"},
	{Key: "slash_ymd_hms", Family: Slash, Pattern: "Y/M/D H:m:s"},
	{Key: "slash_ymd_hm", Family: Slash, Pattern: "Y/M/D H:m"},
	{Key: "slash_ymd", Family: Slash, Pattern: "Y/M/D"},

	{Key: "dash_ymd_hms", Family: Dash, Pattern: "Y-M-D H:m:s"},
	{Key: "dash_ymd_hm", Family: Dash, Pattern: "Y-M-D H:m"},
	{Key: "dash_ymd", Family: Dash, Pattern: "Y-M-D"},
	{Key: "dash_dmy_hms", Family: Dash, Pattern: "D-M-Y H:m:s"},
	{Key: "dash_dmy_hm", Family: Dash, Pattern: "D-M-Y H:m"},
	{Key: "dash_dmy", Family: Dash, Pattern: "D-M-Y"},

	{Key: "text_dmy", Family: Text, Pattern: "D Mon Y"},
	{Key: "text_dmy_hm", Family: Text, Pattern: "D Mon Y H:m"},
	{Key: "text_dmy_hms", Family: Text, Pattern: "D Mon Y H:m:s"},
	{Key: "text_mdy", Family: Text, Pattern: "Mon D, Y"},
	{Key: "text_mdy_hm", Family: Text, Pattern: "Mon D, Y H:m"},
	{Key: "text_mdy_hms", Family: Text, Pattern: "Mon D, Y H:m:s"},
	{Key: "text_dash_dmy", Family: Text, Pattern: "D-Mon-Y"},
	{Key: "text_dash_dmy_hm", Family: Text, Pattern: "D-Mon-Y H:m"},
	{Key: "text_dash_dmy_hms", Family: Text, Pattern: "D-Mon-Y H:m:s"},
	{Key: "text_long_dmy", Family: Text, Pattern: "D Month Y"},
	{Key: "text_long_mdy", Family: Text, Pattern: "Month D, Y"},

	{Key: "compact_ymd", Family: Compact, Pattern: "YMD"},
	{Key: "compact_ymdhms", Family: Compact, Pattern: "YMDHms"},
	{Key: "compact_ymdhm", Family: Compact, Pattern: "YMDHm"},

	{Key: "rfc", Family: RFC, Pattern: "Weekday, D Mon Y H:m:s Offset"},
}

// Registry is an ordered, immutable catalog of templates.
type Registry struct {
	templates []Template
	byKey     map[string]int
}

// NewRegistry compiles templates into a registry, preserving their order.
func NewRegistry(templates []Template) (*Registry, error) {
	r := &Registry{
		templates: make([]Template, 0, len(templates)),
		byKey:     make(map[string]int, len(templates)),
	}
	for _, t := range templates {
		if t.Key == "" {
			return nil, fmt.Errorf("template with pattern %q has no key", t.Pattern)
		}
		if _, dup := r.byKey[t.Key]; dup {
			return nil, fmt.Errorf("duplicate template key %q", t.Key)
		}
		if _, ok := ParseFamily(t.Family.String()); !ok {
			return nil, fmt.Errorf("template %q: unknown family %v", t.Key, t.Family)
		}
		if err := t.compile(); err != nil {
			return nil, err
		}
		r.byKey[t.Key] = len(r.templates)
		r.templates = append(r.templates, t)
	}
	return r, nil
}

// Extend returns a new registry with extra appended after the receiver's
// templates. The receiver is left untouched.
func (r *Registry) Extend(extra []Template) (*Registry, error) {
	all := make([]Template, 0, len(r.templates)+len(extra))
	all = append(all, r.templates...)
	all = append(all, extra...)
	return NewRegistry(all)
}

var defaultRegistry = mustRegistry(builtinTemplates)

func mustRegistry(templates []Template) *Registry {
	r, err := NewRegistry(templates)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// All returns every template in registry order.
func (r *Registry) All() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// ByFamily returns the templates of family f in registry order.
func (r *Registry) ByFamily(f Family) []Template {
	var out []Template
	for _, t := range r.templates {
		if t.Family == f {
			out = append(out, t)
		}
	}
	return out
}

// Lookup returns the template with the given key, or ok=false.
func (r *Registry) Lookup(key string) (Template, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Template{}, false
	}
	return r.templates[i], true
}

// Len returns the number of templates.
func (r *Registry) Len() int {
	return len(r.templates)
}
