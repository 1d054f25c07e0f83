package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// ImportRoster ingests a collegiate membership roster, upserting on
// (chapter, member number). Rows naming a chapter the portal does not
// know are skipped and reported, never auto-created. A blank status cell
// gets a computed default: Active while the member's paid-through year
// covers the current year, Not Financial otherwise.
func (im *Importer) ImportRoster(ctx context.Context, data []byte, dryRun bool) (*Summary, error) {
	wb, err := excel.OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	grid, err := wb.FirstGrid()
	if err != nil {
		return nil, err
	}
	headers, rows := excel.KeyedRows(grid, 0)

	kChapter := excel.ResolveKey([]string{"chapter"}, headers)
	kFirst := excel.ResolveKey([]string{"first name", "first"}, headers)
	kLast := excel.ResolveKey([]string{"last name", "last"}, headers)
	kNumber := excel.ResolveKey([]string{"member number", "member #", "member"}, headers)
	kInitiated := excel.ResolveKey([]string{"initiated date", "initiation date"}, headers)
	kYearsPaid := excel.ResolveKey([]string{"years paid", "yearspaid"}, headers)
	kStatus := excel.ResolveKey([]string{"status"}, headers)

	idx, err := im.loadChapterIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	unknown := map[string]struct{}{}
	currentYear := time.Now().Year()

	var batch []model.Member
	for _, row := range rows {
		if excel.IsBlankKeyed(row) {
			continue
		}
		name := strings.TrimSpace(row[kChapter])
		if name == "" {
			summary.Skipped++
			continue
		}
		ch, ok := idx.lookup(name)
		if !ok {
			unknown[name] = struct{}{}
			summary.Skipped++
			continue
		}

		first := excel.CleanString(row[kFirst])
		last := excel.CleanString(row[kLast])
		number := excel.CleanString(row[kNumber])
		if first == nil && last == nil && number == nil {
			summary.Skipped++
			continue
		}

		through := excel.LatestYear(row[kYearsPaid])
		status := strings.TrimSpace(row[kStatus])
		if status == "" {
			if through != nil && *through >= currentYear {
				status = "Active"
			} else {
				status = "Not Financial"
			}
		}

		batch = append(batch, model.Member{
			ID:                   uuid.New().String(),
			ChapterID:            ch.ID,
			FirstName:            first,
			LastName:             last,
			MemberNumber:         number,
			InitiatedDate:        excel.NormalizeDate(row[kInitiated]),
			FinancialThroughYear: through,
			Status:               status,
		})
		summary.Imported++
	}
	summary.setUnknown(unknown)

	if !dryRun {
		if err := im.repo.UpsertMembers(ctx, batch); err != nil {
			return nil, err
		}
		if err := im.repo.RecordUpload(ctx, KindRoster); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("unknown_chapters", len(summary.UnknownChapters)).
		Bool("dry_run", dryRun).
		Msg("roster import finished")
	return summary, nil
}
