package normalize

import (
	"regexp"
	"strings"
)

var weekdayComma = regexp.MustCompile(`^[A-Za-z]+,`)

// Classify picks the template family an input most likely belongs to, from
// the character classes it contains. Rules are checked in order and the
// first match wins. ok is false when no rule applies and every family
// should be tried.
func Classify(input string) (f Family, ok bool) {
	switch {
	case isDigits(input):
		return Compact, true
	case weekdayComma.MatchString(input):
		return RFC, true
	case strings.Contains(input, "/"):
		return Slash, true
	case strings.Contains(input, "-") && !hasLetter(input) && !strings.Contains(input, ","):
		return Dash, true
	case hasLetter(input):
		return Text, true
	}
	return 0, false
}

// Select returns the ordered candidate templates for input. An unrecognized
// shape falls back to the whole registry.
func (r *Registry) Select(input string) []Template {
	f, ok := Classify(input)
	if !ok {
		return r.All()
	}
	candidates := r.ByFamily(f)
	if f == RFC && len(candidates) > 1 {
		candidates = candidates[:1]
	}
	return candidates
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
