package importer

import (
	"context"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// ImportAlumni ingests the alumni census CSV. Rows upsert globally on
// member number; rows without one count as errors and are dropped. The
// census uses its exact export headers (with a couple of known alternates)
// rather than fuzzy matching, because several of its labels are prefixes
// of one another.
func (im *Importer) ImportAlumni(ctx context.Context, data []byte, dryRun bool) (*Summary, error) {
	_, rows, err := excel.ReadCSV(data)
	if err != nil {
		return nil, err
	}

	summary := newSummary(dryRun)
	summary.Total = len(rows)

	var batch []model.AlumniMember
	for _, r := range rows {
		fullName := excel.Field(r, "Full Name")
		first, last := excel.SplitFullName(fullName)

		m := model.AlumniMember{
			MemberNumber:                excel.CleanString(excel.Field(r, "Member #", "Member Number")),
			FullName:                    excel.CleanString(fullName),
			FirstName:                   first,
			LastName:                    last,
			Email:                       excel.CleanString(excel.Field(r, "Email")),
			AffiliatedChapter:           excel.CleanString(excel.Field(r, "Affiliated Chapter")),
			AffiliatedChapterNumber:     excel.CleanString(excel.Field(r, "Affiliated Chapter Number")),
			AffiliatedChapterRegion:     excel.CleanString(excel.Field(r, "Affiliated Chapter Region")),
			AffiliatedChapterUniversity: excel.CleanString(excel.Field(r, "Affiliated Chapter University/Location")),
			InitiatedChapter:            excel.CleanString(excel.Field(r, "Initiated Chapter")),
			InitiatedChapterRegion:      excel.CleanString(excel.Field(r, "Initiated Chapter Region")),
			InitiatedChapterUniversity:  excel.CleanString(excel.Field(r, "Initiated Chapter University/Location")),
			InitiatedYear:               excel.ParseIntLoose(excel.Field(r, "Initiated Year")),
			InitiatedDate:               excel.CleanString(excel.Field(r, "Initiated Date")),
			MemberType:                  excel.CleanString(excel.Field(r, "Member Type")),
			LifeMemberType:              excel.CleanString(excel.Field(r, "Life Member Type")),
			CurrentlyFinancial:          excel.CleanString(excel.Field(r, "Currently Financial")),
			ConsecutiveDues:             excel.CleanString(excel.Field(r, "Consecutive Dues")),
			FinancialThrough:            excel.ParseIntLoose(excel.Field(r, "Financial Through")),
			CareerFieldCode:             excel.CleanString(excel.Field(r, "Career Field Code")),
			CareerField:                 excel.CleanString(excel.Field(r, "Career Field")),
			MilitaryAffiliation:         excel.CleanString(excel.Field(r, "Military Affiliation")),
			ActiveDuty:                  excel.CleanString(excel.Field(r, "Active Duty")),
			LastRankAchieved:            excel.CleanString(excel.Field(r, "Last Rank Achieved")),
			FormerSBC:                   excel.CleanString(excel.Field(r, "Former SBC")),
			DSCMember:                   excel.CleanString(excel.Field(r, "DSC Member")),
			DSCNumber:                   excel.CleanString(excel.Field(r, "DSC Number")),
			ALLockeScholar:              excel.CleanString(excel.Field(r, "AL Locke Scholar")),
			ALLockeScholarNumber:        excel.CleanString(excel.Field(r, "AL Locke Scholar Number")),
			JTFloydHOFMember:            excel.CleanString(excel.Field(r, "JT Floyd HoF Member")),
		}
		if m.MemberNumber == nil {
			summary.Errors++
			continue
		}
		batch = append(batch, m)
	}

	if dryRun {
		summary.Imported = len(batch)
	} else {
		inserted, updated, err := im.repo.UpsertAlumniMembers(ctx, batch)
		if err != nil {
			return nil, err
		}
		summary.Inserted = inserted
		summary.Updated = updated
		summary.Imported = inserted + updated
		if err := im.repo.RecordUpload(ctx, KindAlumni); err != nil {
			return nil, err
		}
	}

	im.log.Info().
		Int("total", summary.Total).
		Int("inserted", summary.Inserted).
		Int("updated", summary.Updated).
		Int("errors", summary.Errors).
		Bool("dry_run", dryRun).
		Msg("alumni census import finished")
	return summary, nil
}
