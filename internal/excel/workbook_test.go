package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestOpenWorkbook_Invalid(t *testing.T) {
	_, err := OpenWorkbook([]byte("not a workbook"))
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInvalidWorkbook))
}

func TestWorkbook_Grid(t *testing.T) {
	data := buildWorkbook(t, "Roster", [][]any{
		{"Chapter", "First Name"},
		{"Alpha", "John"},
	})
	wb, err := OpenWorkbook(data)
	require.NoError(t, err)
	defer wb.Close()

	require.True(t, wb.HasSheet("Roster"))
	require.False(t, wb.HasSheet("Missing"))

	grid, err := wb.FirstGrid()
	require.NoError(t, err)
	require.Equal(t, "Chapter", grid[0][0])
	require.Equal(t, "John", grid[1][1])
}

func TestKeyedRows(t *testing.T) {
	grid := [][]string{
		{"Banner row"},
		{"Chapter", "Hours", ""},
		{"Alpha", "3"},
		{"Beta", "4", "extra-under-empty-header"},
	}
	headers, rows := KeyedRows(grid, 1)
	require.Equal(t, []string{"Chapter", "Hours", ""}, headers)
	require.Len(t, rows, 2)
	require.Equal(t, "Alpha", rows[0]["Chapter"])
	require.Equal(t, "3", rows[0]["Hours"])
	// cells under an empty header are not keyed
	_, ok := rows[1][""]
	require.False(t, ok)

	headers, rows = KeyedRows(grid, 10)
	require.Nil(t, headers)
	require.Nil(t, rows)
}
