package importer

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// ImportHistory ingests multi-year membership counts in either of two
// layouts. LONG carries one (chapter, year, count) triple per row; WIDE
// carries one chapter per row with one column per 4-digit year header.
// History is authoritative for chapter existence, so unmatched names
// create new chapters instead of being skipped.
func (im *Importer) ImportHistory(ctx context.Context, data []byte, dryRun bool) (*Summary, error) {
	wb, err := excel.OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	grid, err := wb.FirstGrid()
	if err != nil {
		return nil, err
	}
	headers := grid[0]

	shape, err := excel.DetectShape(headers)
	if err != nil {
		return nil, err
	}

	idx, err := im.loadChapterIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	summary.Shape = string(shape)

	var batch []model.YearlySnapshot
	switch shape {
	case excel.ShapeWide:
		yearCols := excel.WideYearColumns(headers)
		for _, row := range grid[1:] {
			if excel.IsBlankRow(row) {
				continue
			}
			name := strings.TrimSpace(excel.Cell(row, 0))
			if name == "" {
				summary.Skipped++
				continue
			}
			ch := idx.resolveOrCreate(name)
			for _, yc := range yearCols {
				batch = append(batch, model.YearlySnapshot{
					ID:            uuid.New().String(),
					ChapterID:     ch.ID,
					Year:          yc.Year,
					ActiveMembers: excel.ParseCount(excel.Cell(row, yc.Col)),
					Notes:         "history import (wide)",
				})
				summary.Imported++
			}
		}
	case excel.ShapeLong:
		iChapter := excel.ResolveColumn([]string{"chapter"}, headers)
		iYear := excel.ResolveColumn([]string{"year"}, headers)
		iActive := excel.ResolveColumn([]string{"active members", "active"}, headers)
		for _, row := range grid[1:] {
			if excel.IsBlankRow(row) {
				continue
			}
			name := strings.TrimSpace(excel.Cell(row, iChapter))
			if name == "" {
				summary.Skipped++
				continue
			}
			year, err := strconv.Atoi(strings.TrimSpace(excel.Cell(row, iYear)))
			if err != nil || year == 0 {
				summary.Skipped++
				continue
			}
			ch := idx.resolveOrCreate(name)
			batch = append(batch, model.YearlySnapshot{
				ID:            uuid.New().String(),
				ChapterID:     ch.ID,
				Year:          year,
				ActiveMembers: excel.ParseCount(excel.Cell(row, iActive)),
				Notes:         "history import",
			})
			summary.Imported++
		}
	}

	if !dryRun {
		if len(idx.created) > 0 {
			if err := im.repo.UpsertChapters(ctx, idx.created); err != nil {
				return nil, err
			}
		}
		if err := im.repo.UpsertYearlySnapshots(ctx, batch); err != nil {
			return nil, err
		}
		if err := im.repo.RecordUpload(ctx, KindHistory); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Str("shape", summary.Shape).
		Int("imported", summary.Imported).
		Int("created_chapters", len(idx.created)).
		Bool("dry_run", dryRun).
		Msg("history import finished")
	return summary, nil
}
