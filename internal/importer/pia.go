package importer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// Accepted header spellings per PIA field. The misspelled scholarship
// label stays in the list so historical workbooks keep importing.
var (
	piaChapterKeys  = []string{"chapter", "chapter name"}
	piaDateKeys     = []string{"program date", "activity date", "date"}
	piaHoursKeys    = []string{"total hours", "hours"}
	piaProgramKeys  = []string{"program type", "program"}
	piaBBBKeys      = []string{"bbb", "bigger & better business", "bigger and better business"}
	piaEduKeys      = []string{"education"}
	piaSocialKeys   = []string{"social action", "social"}
	piaSBCKeys      = []string{"sbc", "sigma beta club"}
	piaDescKeys     = []string{"program description", "description", "activity description", "notes"}
	piaBrothersKeys = []string{"sigma brothers attending", "brothers attending", "number of sigmas", "sigmas attending", "# brothers", "# of brothers", "brothers"}
	piaSpendKeys    = []string{"black spend amount", "black spend", "black dollars spent", "black-owned spend"}
	piaScholKeys    = []string{"scholarship funds disbursed", "scholarship funds distributed", "scholarship funds dispursed", "scholarship amount", "scholarship"}
)

// ImportPIA ingests the program/impact-activity log. Unlike the other
// pipelines this one is replace-all: the uploaded sheet is the single
// current truth, so a live run clears every stored entry before inserting
// the new set in one transaction. Category flags come from per-category
// columns when present, otherwise from substrings of the program-type cell.
func (im *Importer) ImportPIA(ctx context.Context, data []byte, dryRun bool) (*Summary, error) {
	wb, err := excel.OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	grid, err := wb.FirstGrid()
	if err != nil {
		return nil, err
	}
	headerRow := excel.FindAnchorRow(grid, "chapter", im.cfg.Import.HeaderScanRows)
	headers, rows := excel.KeyedRows(grid, headerRow)

	kChapter := excel.ResolveKey(piaChapterKeys, headers)
	kDate := excel.ResolveKey(piaDateKeys, headers)
	kHours := excel.ResolveKey(piaHoursKeys, headers)
	kProgram := excel.ResolveKey(piaProgramKeys, headers)
	kBBB := excel.ResolveKey(piaBBBKeys, headers)
	kEdu := excel.ResolveKey(piaEduKeys, headers)
	kSocial := excel.ResolveKey(piaSocialKeys, headers)
	kSBC := excel.ResolveKey(piaSBCKeys, headers)
	kDesc := excel.ResolveKey(piaDescKeys, headers)
	kBrothers := excel.ResolveKey(piaBrothersKeys, headers)
	kSpend := excel.ResolveKey(piaSpendKeys, headers)
	kSchol := excel.ResolveKey(piaScholKeys, headers)

	idx, err := im.loadChapterIndex(ctx)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	unknown := map[string]struct{}{}
	now := time.Now().UTC().Format(time.RFC3339)

	var batch []model.PIAEntry
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

		entry := model.PIAEntry{
			ID:        uuid.New().String(),
			ChapterID: ch.ID,
			Hours:     excel.ParseHours(row[kHours]),
			CreatedAt: now,
		}
		entry.ActivityDate = excel.NormalizeDate(row[kDate])
		if entry.ActivityDate != nil && len(*entry.ActivityDate) >= 4 {
			entry.ReportYear = excel.ParseIntLoose((*entry.ActivityDate)[:4])
		}

		ptxt := strings.ToLower(strings.TrimSpace(row[kProgram]))
		entry.IsBBB = strings.Contains(ptxt, "bbb")
		entry.IsEducation = strings.Contains(ptxt, "education")
		entry.IsSocial = strings.Contains(ptxt, "social")
		entry.IsSBC = strings.Contains(ptxt, "sbc") || strings.Contains(ptxt, "sigma beta")
		if kBBB != "" {
			entry.IsBBB = excel.ParseBool(row[kBBB])
		}
		if kEdu != "" {
			entry.IsEducation = excel.ParseBool(row[kEdu])
		}
		if kSocial != "" {
			entry.IsSocial = excel.ParseBool(row[kSocial])
		}
		if kSBC != "" {
			entry.IsSBC = excel.ParseBool(row[kSBC])
		}

		entry.Description = excel.CleanString(row[kDesc])
		if kBrothers != "" {
			entry.BrothersAttending = excel.ParseIntLoose(row[kBrothers])
		}
		entry.BlackSpendAmount = excel.ParseMoney(row[kSpend])
		entry.ScholarshipFundsDisbursed = excel.ParseMoney(row[kSchol])

		batch = append(batch, entry)
		summary.Imported++
	}
	summary.setUnknown(unknown)

	if !dryRun {
		if err := im.repo.ReplacePIAEntries(ctx, batch); err != nil {
			return nil, err
		}
		if err := im.repo.RecordUpload(ctx, KindPIA); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("unknown_chapters", len(summary.UnknownChapters)).
		Bool("dry_run", dryRun).
		Msg("pia import finished")
	return summary, nil
}
