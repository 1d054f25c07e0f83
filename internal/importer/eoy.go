package importer

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

var filenameYear = regexp.MustCompile(`(20\d{2})`)

// ImportEOY ingests the regional end-of-year workbook. The layout is
// position-fragile: the region sheet has decorative rows above the data,
// so the membership-count column is found by scanning for a cell
// containing "active", and data rows start at a fixed offset. The snapshot
// year comes from a 4-digit token in the uploaded filename.
func (im *Importer) ImportEOY(ctx context.Context, data []byte, filename string, dryRun bool) (*Summary, error) {
	wb, err := excel.OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheet := im.cfg.Import.RegionSheet
	if !wb.HasSheet(sheet) {
		return nil, errors.NewFormatError("a '" + sheet + "' sheet")
	}
	grid, err := wb.Grid(sheet)
	if err != nil {
		return nil, err
	}

	activeCol := -1
	scan := im.cfg.Import.EOYActiveScanRows
	for i := 0; i < scan && i < len(grid); i++ {
		for j, cell := range grid[i] {
			if strings.Contains(excel.NormalizeLabel(cell), "active") {
				activeCol = j
				break
			}
		}
		if activeCol >= 0 {
			break
		}
	}
	if activeCol < 0 {
		return nil, errors.NewFormatError("an 'Active' column in the first " + strconv.Itoa(scan) + " rows")
	}

	year := time.Now().Year()
	if m := filenameYear.FindString(filename); m != "" {
		year, _ = strconv.Atoi(m)
	}

	idx, err := im.loadChapterIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	summary.Year = year
	unknown := map[string]struct{}{}

	var batch []model.YearlySnapshot
	for r := im.cfg.Import.EOYDataStartRow; r < len(grid); r++ {
		row := grid[r]
		name := strings.TrimSpace(excel.Cell(row, 0))
		if name == "" {
			break // contiguous block ends at the first blank chapter cell
		}
		ch, ok := idx.lookup(name)
		if !ok {
			unknown[name] = struct{}{}
			summary.Skipped++
			continue
		}
		batch = append(batch, model.YearlySnapshot{
			ID:            uuid.New().String(),
			ChapterID:     ch.ID,
			Year:          year,
			ActiveMembers: excel.ParseCount(excel.Cell(row, activeCol)),
			Notes:         "EOY import",
		})
		summary.Imported++
	}
	summary.setUnknown(unknown)

	if !dryRun {
		if err := im.repo.UpsertYearlySnapshots(ctx, batch); err != nil {
			return nil, err
		}
		if err := im.repo.RecordUpload(ctx, KindYearly); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Int("year", year).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Bool("dry_run", dryRun).
		Msg("end-of-year import finished")
	return summary, nil
}
