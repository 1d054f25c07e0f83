package excel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate_Serial(t *testing.T) {
	got := NormalizeDate("45292")
	require.NotNil(t, got)
	require.Equal(t, "2024-01-01", *got)
}

func TestNormalizeDate_RoundTrip(t *testing.T) {
	first := NormalizeDate("3/15/24")
	require.NotNil(t, first)
	require.Equal(t, "2024-03-15", *first)

	again := NormalizeDate(*first)
	require.NotNil(t, again)
	require.Equal(t, *first, *again)
}

func TestNormalizeDate_Formats(t *testing.T) {
	cases := map[string]string{
		"2023-07-04":    "2023-07-04",
		"2023/7/4":      "2023-07-04",
		"7/4/2023":      "2023-07-04",
		"7-4-23":        "2023-07-04",
		"July 4, 2023":  "2023-07-04",
		"Jul 4, 2023":   "2023-07-04",
		" 2023-07-04 ":  "2023-07-04",
	}
	for in, want := range cases {
		got := NormalizeDate(in)
		require.NotNil(t, got, "input %q", in)
		require.Equal(t, want, *got, "input %q", in)
	}
}

func TestNormalizeDate_Garbage(t *testing.T) {
	require.Nil(t, NormalizeDate(""))
	require.Nil(t, NormalizeDate("   "))
	require.Nil(t, NormalizeDate("not a date"))
}

func TestParseMoney(t *testing.T) {
	got := ParseMoney("$1,234.50")
	require.NotNil(t, got)
	require.Equal(t, 1234.5, *got)

	zero := ParseMoney("0")
	require.NotNil(t, zero)
	require.Equal(t, 0.0, *zero)

	require.Nil(t, ParseMoney(""))
	require.Nil(t, ParseMoney("   "))
	require.Nil(t, ParseMoney("n/a"))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"x", "X", "yes", "Y", "true", "1", "2", " t "} {
		require.True(t, ParseBool(s), "input %q", s)
	}
	for _, s := range []string{"", "no", "0", "-1", "false", "maybe"} {
		require.False(t, ParseBool(s), "input %q", s)
	}
}

func TestLatestYear(t *testing.T) {
	got := LatestYear("23,24,25")
	require.NotNil(t, got)
	require.Equal(t, 2025, *got)

	got = LatestYear("2022, 2023")
	require.NotNil(t, got)
	require.Equal(t, 2023, *got)

	require.Nil(t, LatestYear(""))
	require.Nil(t, LatestYear("none"))
}

func TestCleanString(t *testing.T) {
	got := CleanString("  Alpha  ")
	require.NotNil(t, got)
	require.Equal(t, "Alpha", *got)

	require.Nil(t, CleanString(""))
	require.Nil(t, CleanString("   "))
}

func TestParseIntLoose(t *testing.T) {
	got := ParseIntLoose("1,234")
	require.NotNil(t, got)
	require.Equal(t, 1234, *got)

	require.Nil(t, ParseIntLoose("abc"))
	require.Nil(t, ParseIntLoose(""))
}

func TestParseCount(t *testing.T) {
	require.Equal(t, 1250, ParseCount("1,250"))
	require.Equal(t, 12, ParseCount("12.7"))
	require.Equal(t, 0, ParseCount(""))
	require.Equal(t, 0, ParseCount("n/a"))
}

func TestSplitFullName(t *testing.T) {
	first, last := SplitFullName("John Quincy Adams")
	require.NotNil(t, first)
	require.NotNil(t, last)
	require.Equal(t, "John Quincy", *first)
	require.Equal(t, "Adams", *last)

	first, last = SplitFullName("Prince")
	require.NotNil(t, first)
	require.NotNil(t, last)
	require.Equal(t, "Prince", *first)
	require.Equal(t, "", *last)

	first, last = SplitFullName("  ")
	require.Nil(t, first)
	require.Nil(t, last)
}
