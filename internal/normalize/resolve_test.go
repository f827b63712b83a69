package normalize

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingResolver returns a resolver over reg and the slice its attempts
// are appended to.
func recordingResolver(reg *Registry) (*Resolver, *[]Template) {
	var attempts []Template
	r := NewResolver(reg)
	r.onAttempt = func(t Template) { attempts = append(attempts, t) }
	return r, &attempts
}

func TestResolver_Scenarios(t *testing.T) {
	cases := []struct {
		input string
		want  string
		stage Stage
		key   string
	}{
		{"2025-11-21 13:45:00", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21T13:45:00Z", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21T13:45:00.123+02:00", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21", "21/11/2025 00:00", StageFastPath, ""},
		{"20251121T134500Z", "21/11/2025 13:45", StageFastPath, ""},
		{"20251121T134500+0530", "21/11/2025 13:45", StageFastPath, ""},
		{"20251121T1345", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21T13:45:00+05", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21 13:45:00 +0000", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21 13:45 +05:30", "21/11/2025 13:45", StageFastPath, ""},
		{"2025-11-21T13", "21/11/2025 13:00", StageFastPath, ""},
		{"2025-11-21T13:45:00z", "21/11/2025 13:45", StageFastPath, ""},
		{"21/11/2025 13:45", "21/11/2025 13:45", StageTargeted, "slash_dmy_hm"},
		{"21/11/2025 13:45:30", "21/11/2025 13:45", StageTargeted, "slash_dmy_hms"},
		{"2025/11/21", "21/11/2025 00:00", StageTargeted, "slash_ymd"},
		{"2025-1-5 9:05", "05/01/2025 09:05", StageTargeted, "dash_ymd_hm"},
		{"21-11-2025", "21/11/2025 00:00", StageTargeted, "dash_dmy"},
		{"Nov 21, 2025 13:45", "21/11/2025 13:45", StageTargeted, "text_mdy_hm"},
		{"21 Nov 2025", "21/11/2025 00:00", StageTargeted, "text_dmy"},
		{"21 nov 2025 13:45:00", "21/11/2025 13:45", StageTargeted, "text_dmy_hms"},
		{"21-Nov-2025", "21/11/2025 00:00", StageTargeted, "text_dash_dmy"},
		{"November 21, 2025", "21/11/2025 00:00", StageTargeted, "text_long_mdy"},
		{"20251121", "21/11/2025 00:00", StageTargeted, "compact_ymd"},
		{"20251121134500", "21/11/2025 13:45", StageTargeted, "compact_ymdhms"},
		{"202511211345", "21/11/2025 13:45", StageTargeted, "compact_ymdhm"},
		{"Fri, 21 Nov 2025 13:45:00 +0000", "21/11/2025 13:45", StageTargeted, "rfc"},
		{"Fri, 21 Nov 2025 13:45:00 +0530", "21/11/2025 13:45", StageTargeted, "rfc"},
		{"  21/11/2025 13:45\n", "21/11/2025 13:45", StageTargeted, "slash_dmy_hm"},
	}

	r := NewResolver(nil)
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			m, err := r.Resolve(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.stage, m.Stage)
			assert.Equal(t, tc.key, m.Template.Key)
			assert.Equal(t, tc.want, r.Format(tc.input, DefaultOutput()))
		})
	}
}

func TestResolver_ISOOffsetKept(t *testing.T) {
	r := NewResolver(nil)
	for input, secs := range map[string]int{
		"2025-11-21T13:45:00+05":    5 * 3600,
		"2025-11-21 13:45:00 -0330": -(3*3600 + 30*60),
		"20251121T134500Z":          0,
		"2025-11-21T13:45:00z":      0,
	} {
		m, err := r.Resolve(input)
		require.NoError(t, err, input)
		_, off := m.Instant.Zone()
		assert.Equal(t, secs, off, input)
		assert.Equal(t, 13, m.Instant.Hour(), input)
	}
}

func TestResolver_TerminalFailure(t *testing.T) {
	r := NewResolver(nil)
	cases := map[string]error{
		"":                ErrEmptyInput,
		"   ":             ErrEmptyInput,
		"not a date":      ErrNoMatch,
		"29/02/2023":      ErrNoMatch,
		"2025-13-45":      ErrNoMatch,
		"13:45":           ErrNoMatch,
		"Friday, 21 Nov":  ErrNoMatch,
		"2025112113":      ErrNoMatch,
		"21/Nov/2025 ???": ErrNoMatch,
	}
	for input, want := range cases {
		_, err := r.Resolve(input)
		assert.True(t, errors.Is(err, want), "Resolve(%q) = %v, want %v", input, err, want)
		assert.Equal(t, Sentinel, r.Format(input, DefaultOutput()), input)
	}
}

func TestResolver_CompactAttemptedFirst(t *testing.T) {
	r, attempts := recordingResolver(nil)
	_, err := r.Resolve("2025112113")
	require.Error(t, err)

	compact := keys(Default().ByFamily(Compact))
	require.GreaterOrEqual(t, len(*attempts), len(compact))
	assert.Equal(t, compact, keys((*attempts)[:len(compact)]))
}

func TestResolver_StopsAtFirstMatch(t *testing.T) {
	r, attempts := recordingResolver(nil)
	_, err := r.Resolve("20251121")
	require.NoError(t, err)
	assert.Equal(t, []string{"compact_ymd"}, keys(*attempts))
}

func TestResolver_FastPathSkipsTemplates(t *testing.T) {
	r, attempts := recordingResolver(nil)
	m, err := r.Resolve("2025-11-21T13:45:00Z")
	require.NoError(t, err)
	assert.Equal(t, StageFastPath, m.Stage)
	assert.Empty(t, *attempts)
}

func TestResolver_FallbackSkipsRFCWithoutComma(t *testing.T) {
	r, attempts := recordingResolver(nil)
	_, err := r.Resolve("not a date")
	require.True(t, errors.Is(err, ErrNoMatch))

	text := keys(Default().ByFamily(Text))
	assert.Equal(t, text, keys((*attempts)[:len(text)]), "targeted pass tries text first")

	seen := map[string]int{}
	for _, a := range *attempts {
		assert.NotEqual(t, RFC, a.Family, "rfc must not be attempted without a comma")
		seen[a.Key]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "template %s attempted more than once", key)
	}
	assert.Len(t, *attempts, Default().Len()-len(Default().ByFamily(RFC)))
}

func TestResolver_FallbackTriesRFCWithComma(t *testing.T) {
	r, attempts := recordingResolver(nil)
	_, err := r.Resolve("13:45, x")
	require.Error(t, err)

	var rfc int
	for _, a := range *attempts {
		if a.Family == RFC {
			rfc++
		}
	}
	assert.Equal(t, 1, rfc)
}

func TestResolver_FallbackRecoversMisroutedInput(t *testing.T) {
	// A registry without text templates: "21-Nov-2025" classifies as text,
	// finds no candidates and is recovered by the exhaustive pass.
	reg, err := NewRegistry([]Template{
		{Key: "dash_ymd", Family: Dash, Pattern: "Y-M-D"},
		{Key: "dash_mon", Family: Dash, Pattern: "D-Mon-Y"},
	})
	require.NoError(t, err)

	r, attempts := recordingResolver(reg)
	m, err := r.Resolve("21-Nov-2025")
	require.NoError(t, err)
	assert.Equal(t, StageFallback, m.Stage)
	assert.Equal(t, "dash_mon", m.Template.Key)
	assert.Equal(t, []string{"dash_ymd", "dash_mon"}, keys(*attempts))
}

func TestResolver_FormatThenReparseIsStable(t *testing.T) {
	r := NewResolver(nil)
	for _, key := range []string{"dash_ymd_hms", "slash_dmy_hms", "text_dmy_hms", "compact_ymdhms", "rfc"} {
		out, err := ParseOutput(key, Default())
		require.NoError(t, err)

		first, err := r.Resolve("Nov 21, 2025 13:45:09")
		require.NoError(t, err)

		text := out.Render(first.Instant)
		second, err := r.Resolve(text)
		require.NoError(t, err, "%s output %q did not reparse", key, text)
		assert.True(t, first.Instant.Equal(second.Instant), "%s: %v != %v", key, first.Instant, second.Instant)
	}
}

func TestResolver_DayMonthOrderByRegistry(t *testing.T) {
	m, err := NewResolver(nil).Resolve("01/02/2025")
	require.NoError(t, err)
	assert.Equal(t, time.February, m.Instant.Month())
	assert.Equal(t, 1, m.Instant.Day())
}

func TestResolver_ConcurrentUse(t *testing.T) {
	r := NewResolver(nil)
	inputs := map[string]string{
		"2025-11-21 13:45:00":             "21/11/2025 13:45",
		"21/11/2025 13:45":                "21/11/2025 13:45",
		"Nov 21, 2025 13:45":              "21/11/2025 13:45",
		"20251121134500":                  "21/11/2025 13:45",
		"Fri, 21 Nov 2025 13:45:00 +0000": "21/11/2025 13:45",
		"not a date":                      Sentinel,
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				for in, want := range inputs {
					if got := r.Format(in, DefaultOutput()); got != want {
						t.Errorf("Format(%q) = %q, want %q", in, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
