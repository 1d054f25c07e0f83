// Package excel holds the spreadsheet-side half of the import pipelines:
// cell value normalization, header resolution, sheet layout detection and
// workbook/CSV readers. Everything here is tolerant by design — a cell that
// cannot be coerced yields nil, never an error, so a bad value costs one
// field rather than the whole row.
package excel

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// serialEpoch is the spreadsheet day-zero (1899-12-30). Serial conversion
// is done in exact milliseconds from this instant; day-count arithmetic via
// the calendar API drifts by one around leap years.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	numericRe = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	isoDateRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	usDateRe  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2}|\d{4})$`)
	yearTokRe = regexp.MustCompile(`\d{1,4}`)
	digitsRe  = regexp.MustCompile(`\D+`)
)

// freeformLayouts are tried last, for human-entered dates.
var freeformLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"January 2 2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// NormalizeDate coerces a raw cell into a canonical YYYY-MM-DD string.
// Accepted inputs, in order: a spreadsheet date serial, an ISO-ish
// YYYY-MM-DD or YYYY/MM/DD string, a US MM/DD/YY[YY] string (two-digit
// years resolve to 2000+YY), and a handful of free-form layouts. Returns
// nil when nothing matches.
func NormalizeDate(value string) *string {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}

	if numericRe.MatchString(s) {
		serial, err := strconv.ParseFloat(s, 64)
		if err == nil {
			ms := math.Round(serial * 86400000)
			d := serialEpoch.Add(time.Duration(ms) * time.Millisecond)
			return strPtr(d.Format("2006-01-02"))
		}
	}

	if m := isoDateRe.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		return strPtr(t.Format("2006-01-02"))
	}

	if m := usDateRe.FindStringSubmatch(s); m != nil {
		mo, _ := strconv.Atoi(m[1])
		d, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if y < 100 {
			y = 2000 + y
		}
		t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
		return strPtr(t.Format("2006-01-02"))
	}

	for _, layout := range freeformLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return strPtr(t.Format("2006-01-02"))
		}
	}
	return nil
}

// ParseMoney strips currency symbols and thousands separators and parses
// the remainder as a decimal. "" and garbage both yield nil; "0" yields 0.
func ParseMoney(value string) *float64 {
	s := strings.ReplaceAll(value, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// ParseBool matches the truthy tokens spreadsheets actually contain. A
// numeric cell is truthy iff greater than zero; anything unrecognized,
// including empty, is false.
func ParseBool(value string) bool {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return false
	}
	switch s {
	case "true", "1", "yes", "y", "x", "t":
		return true
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n > 0
	}
	return false
}

// LatestYear extracts every 2-or-4-digit year token from free text like
// "23,24,25", expands two-digit values by adding 2000, and returns the
// maximum. Nil when the text holds no tokens.
func LatestYear(text string) *int {
	tokens := yearTokRe.FindAllString(text, -1)
	if len(tokens) == 0 {
		return nil
	}
	max := 0
	found := false
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		found = true
		if n > max {
			max = n
		}
	}
	if !found {
		return nil
	}
	if max < 100 {
		max = 2000 + max
	}
	return &max
}

// CleanString trims and returns nil for empty results. The nil-vs-empty
// distinction matters downstream: upserts keep an existing column value
// only when the incoming one is NULL.
func CleanString(value string) *string {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}
	return &s
}

// ParseIntLoose keeps only the digits of a cell and parses them, so
// "1,234" and "#567" both work. Nil when no digits remain.
func ParseIntLoose(value string) *int {
	s := digitsRe.ReplaceAllString(value, "")
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ParseCount is the permissive counter parser used for membership numbers:
// commas stripped, unparseable input counts as zero.
func ParseCount(value string) int {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

// ParseHours parses a numeric cell with optional thousands separators,
// defaulting to zero.
func ParseHours(value string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if s == "" {
		return 0
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return n
}

// SplitFullName breaks "First Middle Last" on the last whitespace token.
// Single-token names get an empty last name.
func SplitFullName(full string) (first, last *string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return nil, nil
	case 1:
		empty := ""
		return &parts[0], &empty
	default:
		f := strings.Join(parts[:len(parts)-1], " ")
		l := parts[len(parts)-1]
		return &f, &l
	}
}

func strPtr(s string) *string { return &s }
