package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type tokenKind int

const (
	tokLiteral tokenKind = iota
	tokYear
	tokMonth
	tokDay
	tokHour
	tokMinute
	tokSecond
	tokMonthAbbr
	tokMonthName
	tokWeekday
	tokOffset
)

type token struct {
	kind tokenKind
	lit  string
}

// fieldTokens is matched longest-first so "Month" wins over "Mon" and "M".
var fieldTokens = []struct {
	text string
	kind tokenKind
}{
	{"Weekday", tokWeekday},
	{"Offset", tokOffset},
	{"Month", tokMonthName},
	{"Mon", tokMonthAbbr},
	{"Y", tokYear},
	{"M", tokMonth},
	{"D", tokDay},
	{"H", tokHour},
	{"m", tokMinute},
	{"s", tokSecond},
}

func (k tokenKind) numeric() bool {
	switch k {
	case tokYear, tokMonth, tokDay, tokHour, tokMinute, tokSecond:
		return true
	}
	return false
}

// tokenize splits a field-token pattern into fields and literal runs.
func tokenize(pattern string) []token {
	var out []token
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, token{kind: tokLiteral, lit: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		matched := false
		for _, ft := range fieldTokens {
			if strings.HasPrefix(pattern[i:], ft.text) {
				flush()
				out = append(out, token{kind: ft.kind})
				i += len(ft.text)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(pattern[i])
			i++
		}
	}
	flush()
	return out
}

func hasField(tokens []token) bool {
	for _, t := range tokens {
		if t.kind != tokLiteral {
			return true
		}
	}
	return false
}

// compileLayout turns a token list into a time layout for strict parsing.
// Numeric fields that touch another numeric field are fixed width, since
// nothing else delimits them.
func compileLayout(tokens []token) (string, error) {
	var b strings.Builder
	for i, t := range tokens {
		packed := (i > 0 && tokens[i-1].kind.numeric()) ||
			(i+1 < len(tokens) && tokens[i+1].kind.numeric())

		switch t.kind {
		case tokLiteral:
			for _, r := range t.lit {
				if r >= '0' && r <= '9' || (r >= 'A' && r <= 'Z' && r != 'T') || (r >= 'a' && r <= 'z') {
					return "", fmt.Errorf("literal %q is not allowed in a template pattern", t.lit)
				}
			}
			b.WriteString(t.lit)
		case tokYear:
			b.WriteString("2006")
		case tokMonth:
			b.WriteString(pick(packed, "01", "1"))
		case tokDay:
			b.WriteString(pick(packed, "02", "2"))
		case tokHour:
			b.WriteString("15")
		case tokMinute:
			b.WriteString("04")
		case tokSecond:
			b.WriteString("05")
		case tokMonthAbbr:
			b.WriteString("Jan")
		case tokMonthName:
			b.WriteString("January")
		case tokWeekday:
			b.WriteString("Mon")
		case tokOffset:
			b.WriteString("Z0700")
		}
	}
	return b.String(), nil
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

// render writes t according to tokens. Numeric fields are zero padded.
func render(tokens []token, t time.Time) string {
	buf := make([]byte, 0, 32)
	for _, tok := range tokens {
		switch tok.kind {
		case tokLiteral:
			buf = append(buf, tok.lit...)
		case tokYear:
			buf = appendPadded(buf, t.Year(), 4)
		case tokMonth:
			buf = appendPadded(buf, int(t.Month()), 2)
		case tokDay:
			buf = appendPadded(buf, t.Day(), 2)
		case tokHour:
			buf = appendPadded(buf, t.Hour(), 2)
		case tokMinute:
			buf = appendPadded(buf, t.Minute(), 2)
		case tokSecond:
			buf = appendPadded(buf, t.Second(), 2)
		case tokMonthAbbr:
			buf = append(buf, t.Month().String()[:3]...)
		case tokMonthName:
			buf = append(buf, t.Month().String()...)
		case tokWeekday:
			buf = append(buf, t.Weekday().String()[:3]...)
		case tokOffset:
			buf = t.AppendFormat(buf, "-0700")
		}
	}
	return string(buf)
}

func appendPadded(buf []byte, v, width int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}
