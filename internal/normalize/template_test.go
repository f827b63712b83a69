package normalize

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patterns(ts []Template) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Pattern
	}
	return out
}

func keys(ts []Template) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Key
	}
	return out
}

func TestDefault_FamilyOrder(t *testing.T) {
	want := map[Family][]string{
		Slash: {"D/M/Y H:m", "D/M/Y H:m:s", "D/M/Y", "Y/M/D H:m:s", "Y/M/D H:m", "Y/M/D"},
		Dash:  {"Y-M-D H:m:s", "Y-M-D H:m", "Y-M-D", "D-M-Y H:m:s", "D-M-Y H:m", "D-M-Y"},
		Text: {
			"D Mon Y", "D Mon Y H:m", "D Mon Y H:m:s",
			"Mon D, Y", "Mon D, Y H:m", "Mon D, Y H:m:s",
			"D-Mon-Y", "D-Mon-Y H:m", "D-Mon-Y H:m:s",
			"D Month Y", "Month D, Y",
		},
		Compact: {"YMD", "YMDHms", "YMDHm"},
		RFC:     {"Weekday, D Mon Y H:m:s Offset"},
	}
	for f, w := range want {
		if diff := cmp.Diff(w, patterns(Default().ByFamily(f))); diff != "" {
			t.Errorf("%s family mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestDefault_AllPreservesOrder(t *testing.T) {
	all := Default().All()
	require.Len(t, all, Default().Len())

	var fromFamilies []string
	seen := map[Family]bool{}
	for _, tmpl := range all {
		if !seen[tmpl.Family] {
			seen[tmpl.Family] = true
			fromFamilies = append(fromFamilies, keys(Default().ByFamily(tmpl.Family))...)
		}
	}
	// Built-in families are contiguous, so concatenating them rebuilds All.
	if diff := cmp.Diff(keys(all), fromFamilies); diff != "" {
		t.Errorf("registry order mismatch (-all +families):\n%s", diff)
	}
}

func TestDefault_AllReturnsCopy(t *testing.T) {
	all := Default().All()
	all[0].Key = "mutated"

	first, ok := Default().Lookup("slash_dmy_hm")
	require.True(t, ok)
	assert.Equal(t, "slash_dmy_hm", first.Key)
	assert.Equal(t, "slash_dmy_hm", Default().All()[0].Key)
}

func TestTemplate_Layouts(t *testing.T) {
	cases := map[string]string{
		"slash_dmy_hm":   "2/1/2006 15:04",
		"dash_ymd_hms":   "2006-1-2 15:04:05",
		"text_mdy":       "Jan 2, 2006",
		"text_long_dmy":  "2 January 2006",
		"compact_ymd":    "20060102",
		"compact_ymdhms": "20060102150405",
		"compact_ymdhm":  "200601021504",
		"rfc":            "Mon, 2 Jan 2006 15:04:05 Z0700",
	}
	for key, layout := range cases {
		tmpl, ok := Default().Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, layout, tmpl.Layout(), key)
	}
}

func TestTemplate_RoundTrip(t *testing.T) {
	instant := time.Date(2025, time.November, 21, 13, 45, 7, 0, time.UTC)
	for _, tmpl := range Default().All() {
		t.Run(tmpl.Key, func(t *testing.T) {
			text := tmpl.Format(instant)
			parsed, ok := tmpl.Parse(text)
			require.True(t, ok, "template %s rejected its own output %q", tmpl.Key, text)
			assert.Equal(t, text, tmpl.Format(parsed))
			assert.Equal(t, 2025, parsed.Year())
			assert.Equal(t, time.November, parsed.Month())
			assert.Equal(t, 21, parsed.Day())
		})
	}
}

func TestTemplate_ParseIsStrict(t *testing.T) {
	tmpl, _ := Default().Lookup("slash_dmy")

	_, ok := tmpl.Parse("21/11/2025")
	assert.True(t, ok)
	_, ok = tmpl.Parse("1/2/2025")
	assert.True(t, ok, "unpadded fields are accepted")

	for _, s := range []string{"21/11/2025 13:45", "21/11/25x", "32/11/2025", "29/02/2023", " 21/11/2025"} {
		_, ok := tmpl.Parse(s)
		assert.False(t, ok, s)
	}

	compact, _ := Default().Lookup("compact_ymd")
	_, ok = compact.Parse("2025115")
	assert.False(t, ok, "compact fields are fixed width")
}

func TestTemplate_ZeroValueNeverMatches(t *testing.T) {
	_, ok := Template{}.Parse("2025-11-21")
	assert.False(t, ok)
}

func TestNewRegistry_Errors(t *testing.T) {
	cases := []struct {
		name      string
		templates []Template
	}{
		{"missing key", []Template{{Family: Dash, Pattern: "Y-M-D"}}},
		{"duplicate key", []Template{
			{Key: "a", Family: Dash, Pattern: "Y-M-D"},
			{Key: "a", Family: Slash, Pattern: "Y/M/D"},
		}},
		{"unknown family", []Template{{Key: "a", Pattern: "Y-M-D"}}},
		{"no fields", []Template{{Key: "a", Family: Text, Pattern: "--"}}},
		{"digit literal", []Template{{Key: "a", Family: Text, Pattern: "Y-M-D 1"}}},
		{"letter literal", []Template{{Key: "a", Family: Text, Pattern: "Dth of Mon Y"}}},
		{"underscore reads as padded day", []Template{{Key: "a", Family: Dash, Pattern: "Y_M_D"}}},
		{"dot after seconds reads as fraction", []Template{{Key: "a", Family: Slash, Pattern: "H:m:s.D/M/Y"}}},
		{"comma after seconds reads as fraction", []Template{{Key: "a", Family: Text, Pattern: "H:m:s,D Mon Y"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.templates)
			assert.Error(t, err)
		})
	}
}

func TestRegistry_Extend(t *testing.T) {
	ext, err := Default().Extend([]Template{{Key: "dotted_dmy", Family: Dash, Pattern: "D.M.Y"}})
	require.NoError(t, err)

	assert.Equal(t, Default().Len()+1, ext.Len())
	assert.Equal(t, "dotted_dmy", ext.All()[ext.Len()-1].Key)
	_, ok := Default().Lookup("dotted_dmy")
	assert.False(t, ok, "Extend must not touch the receiver")

	_, err = Default().Extend([]Template{{Key: "rfc", Family: RFC, Pattern: "Y"}})
	assert.Error(t, err)
}

func TestParseFamily(t *testing.T) {
	for _, f := range AllFamilies {
		got, ok := ParseFamily(f.String())
		require.True(t, ok)
		assert.Equal(t, f, got)
	}
	got, ok := ParseFamily("RFC")
	assert.True(t, ok)
	assert.Equal(t, RFC, got)

	_, ok = ParseFamily("iso")
	assert.False(t, ok)
}
