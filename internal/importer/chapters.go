package importer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

// ImportChapters ingests a chapter directory sheet. Rows upsert on chapter
// name: existing chapters keep their id, only the descriptive fields move.
// A "type" cell starting with "c" classifies the chapter Collegiate, the
// "location" cell becomes the city (and the university for collegiates).
func (im *Importer) ImportChapters(ctx context.Context, data []byte, dryRun bool) (*Summary, error) {
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
	iChapter := excel.ResolveColumn([]string{"chapter"}, headers)
	if iChapter < 0 {
		return nil, errors.NewFormatError("a 'Chapter' column")
	}
	iType := excel.ResolveColumn([]string{"type"}, headers)
	iLoc := excel.ResolveColumn([]string{"location"}, headers)
	iCharter := excel.ResolveColumn([]string{"charter"}, headers)

	idx, err := im.loadChapterIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	var batch []model.Chapter
	for _, row := range grid[1:] {
		if excel.IsBlankRow(row) {
			continue
		}
		name := strings.TrimSpace(excel.Cell(row, iChapter))
		if name == "" {
			summary.Skipped++
			continue
		}

		typ := model.ChapterAlumni
		if t := strings.ToLower(excel.Cell(row, iType)); strings.HasPrefix(t, "c") {
			typ = model.ChapterCollegiate
		}
		loc := excel.CleanString(excel.Cell(row, iLoc))
		var university *string
		if typ == model.ChapterCollegiate {
			university = loc
		}

		// No usable charter cell leaves the date null rather than
		// inventing a sentinel.
		var charter *string
		if iCharter >= 0 {
			charter = excel.NormalizeDate(excel.Cell(row, iCharter))
		}

		ch := model.Chapter{
			ID:          uuid.New().String(),
			Code:        excel.CleanString(name),
			Name:        name,
			Type:        string(typ),
			City:        loc,
			University:  university,
			CharterDate: charter,
			Status:      "Active",
		}
		if existing, ok := idx.lookup(name); ok {
			ch.ID = existing.ID
		} else {
			idx.byName[normalizeName(name)] = ch
		}
		batch = append(batch, ch)
		summary.Imported++
	}

	if !dryRun {
		if err := im.repo.UpsertChapters(ctx, batch); err != nil {
			return nil, err
		}
		if err := im.repo.RecordUpload(ctx, KindChapters); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Bool("dry_run", dryRun).
		Msg("chapters import finished")
	return summary, nil
}
