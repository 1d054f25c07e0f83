package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

// Workbook wraps an uploaded spreadsheet as named sheets of cell grids.
type Workbook struct {
	file *excelize.File
}

func OpenWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidWorkbook, err)
	}
	return &Workbook{file: f}, nil
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Grid returns the sheet as rows of raw cell strings. Errors when the
// sheet does not exist or holds no rows at all.
func (w *Workbook) Grid(name string) ([][]string, error) {
	rows, err := w.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrEmptySheet
	}
	return rows, nil
}

// FirstGrid reads the first sheet of the workbook.
func (w *Workbook) FirstGrid() ([][]string, error) {
	sheets := w.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrEmptySheet
	}
	return w.Grid(sheets[0])
}

// KeyedRows turns a grid into header-keyed row maps, using headerRow as
// the header. The header list comes back too: map iteration loses the
// column order ResolveKey needs.
func KeyedRows(grid [][]string, headerRow int) (headers []string, rows []map[string]string) {
	if headerRow >= len(grid) {
		return nil, nil
	}
	headers = grid[headerRow]
	for r := headerRow + 1; r < len(grid); r++ {
		row := make(map[string]string, len(headers))
		for c, h := range headers {
			if h == "" {
				continue
			}
			row[h] = Cell(grid[r], c)
		}
		rows = append(rows, row)
	}
	return headers, rows
}
