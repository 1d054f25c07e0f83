package excel

import (
	"regexp"
	"strings"
)

var labelSepRe = regexp.MustCompile(`[-_\s]+`)

// NormalizeLabel lowers a header label and collapses runs of spaces,
// hyphens and underscores to a single space, so "Black_Spend-Amount" and
// "black spend amount" compare equal.
func NormalizeLabel(s string) string {
	return strings.TrimSpace(labelSepRe.ReplaceAllString(strings.ToLower(s), " "))
}

// ResolveColumn finds the index of the first header that equals or
// contains any of the candidate labels, trying candidates in priority
// order. Returns -1 when nothing matches.
func ResolveColumn(candidates []string, headers []string) int {
	normed := make([]string, len(headers))
	for i, h := range headers {
		normed[i] = NormalizeLabel(h)
	}
	for _, cand := range candidates {
		c := NormalizeLabel(cand)
		if c == "" {
			continue
		}
		for i, h := range normed {
			if h == c || strings.Contains(h, c) {
				return i
			}
		}
	}
	return -1
}

// ResolveKey is ResolveColumn for keyed rows: given the header list a row
// map was built from, it returns the original header string to index the
// map with, or "" when no header matches.
func ResolveKey(candidates []string, headers []string) string {
	if i := ResolveColumn(candidates, headers); i >= 0 {
		return headers[i]
	}
	return ""
}

// FindAnchorRow scans the first maxRows rows of a grid for one containing
// a cell whose normalized text equals anchor, and returns its index.
// Legacy sheets often stack banner rows above the real header row, so the
// header cannot be assumed to live at row 0. Returns 0 when no row
// matches, mirroring the "assume row 0" behavior the data entry tooling
// relies on.
func FindAnchorRow(grid [][]string, anchor string, maxRows int) int {
	a := NormalizeLabel(anchor)
	n := len(grid)
	if maxRows < n {
		n = maxRows
	}
	for i := 0; i < n; i++ {
		for _, cell := range grid[i] {
			if NormalizeLabel(cell) == a {
				return i
			}
		}
	}
	return 0
}

// Cell safely indexes a grid row; excelize trims trailing empty cells so
// positional access past the row end must read as empty, not panic.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// IsBlankRow reports whether every cell is empty after trimming.
func IsBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// IsBlankKeyed reports whether every value of a keyed row is empty.
func IsBlankKeyed(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
