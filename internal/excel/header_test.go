package excel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveColumn_PriorityOrder(t *testing.T) {
	headers := []string{"Chapter", "Program Date", "Total Hours", "Notes"}

	require.Equal(t, 1, ResolveColumn([]string{"program date", "date"}, headers))
	// "date" still matches by substring when the preferred label is absent
	require.Equal(t, 1, ResolveColumn([]string{"activity date", "date"}, headers))
	require.Equal(t, -1, ResolveColumn([]string{"hours spent exactly"}, headers))
}

func TestResolveColumn_SeparatorInsensitive(t *testing.T) {
	headers := []string{"chapter", "Black_Spend-Amount"}
	require.Equal(t, 1, ResolveColumn([]string{"black spend amount"}, headers))
}

func TestResolveKey(t *testing.T) {
	headers := []string{"Chapter Name", "Scholarship Funds Dispursed"}
	require.Equal(t, "Scholarship Funds Dispursed",
		ResolveKey([]string{"scholarship funds disbursed", "scholarship funds dispursed"}, headers))
	require.Equal(t, "", ResolveKey([]string{"missing"}, headers))
}

func TestFindAnchorRow(t *testing.T) {
	grid := [][]string{
		{"Program Impact Report"},
		{""},
		{"Chapter", "Date", "Hours"},
		{"Alpha", "1/1/2024", "3"},
	}
	require.Equal(t, 2, FindAnchorRow(grid, "chapter", 6))

	// no anchor within the scan window falls back to row 0
	require.Equal(t, 0, FindAnchorRow(grid, "chapter", 1))
	require.Equal(t, 0, FindAnchorRow([][]string{{"a"}, {"b"}}, "chapter", 6))
}

func TestCellAndBlankRows(t *testing.T) {
	row := []string{"a", "b"}
	require.Equal(t, "b", Cell(row, 1))
	require.Equal(t, "", Cell(row, 5))
	require.Equal(t, "", Cell(row, -1))

	require.True(t, IsBlankRow([]string{"", "  ", ""}))
	require.False(t, IsBlankRow([]string{"", "x"}))

	require.True(t, IsBlankKeyed(map[string]string{"a": " ", "b": ""}))
	require.False(t, IsBlankKeyed(map[string]string{"a": "x"}))
}
