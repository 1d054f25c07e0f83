package excel

import (
	"strconv"
	"strings"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

// Shape is a tabular layout for multi-period history data.
type Shape string

const (
	// ShapeLong is one row per (chapter, year).
	ShapeLong Shape = "long"
	// ShapeWide is one row per chapter with one column per year.
	ShapeWide Shape = "wide"
)

// YearColumn names one period column of a wide sheet.
type YearColumn struct {
	Col  int
	Year int
}

// DetectShape classifies a history header row. Wide wins when both
// patterns are somehow present, because a stray "year" label in a wide
// sheet is likelier than year-number headers in a long one.
func DetectShape(headers []string) (Shape, error) {
	chapterCol := ResolveColumn([]string{"chapter"}, headers)
	if chapterCol >= 0 && len(WideYearColumns(headers)) > 0 {
		return ShapeWide, nil
	}
	if isLong(headers) {
		return ShapeLong, nil
	}
	return "", errors.ErrUnknownLayout
}

func isLong(headers []string) bool {
	hasChapter, hasYear, hasActive := false, false, false
	for _, h := range headers {
		n := NormalizeLabel(h)
		switch {
		case n == "chapter":
			hasChapter = true
		case n == "year":
			hasYear = true
		case strings.Contains(n, "active"):
			hasActive = true
		}
	}
	return hasChapter && hasYear && hasActive
}

// WideYearColumns returns every header past column 0 that is purely a
// 4-digit year.
func WideYearColumns(headers []string) []YearColumn {
	var cols []YearColumn
	for c := 1; c < len(headers); c++ {
		h := strings.TrimSpace(headers[c])
		if len(h) != 4 {
			continue
		}
		if y, err := strconv.Atoi(h); err == nil {
			cols = append(cols, YearColumn{Col: c, Year: y})
		}
	}
	return cols
}
