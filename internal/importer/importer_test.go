package importer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/erbeard/nc-sigmas-portal/internal/config"
	"github.com/erbeard/nc-sigmas-portal/internal/db"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

func newTestImporter(t *testing.T) (*Importer, db.Repository) {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	repo := db.NewRepository(conn)
	return New(repo, config.Defaults()), repo
}

func seedChapter(t *testing.T, repo db.Repository, name, chapterType string) model.Chapter {
	t.Helper()
	ch := model.Chapter{
		ID:     "ch-" + name,
		Name:   name,
		Type:   chapterType,
		Status: "Active",
	}
	require.NoError(t, repo.UpsertChapters(context.Background(), []model.Chapter{ch}))
	return ch
}

func buildWorkbook(t *testing.T, sheet string, rows map[int][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for rowIdx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func sheetRows(rows ...[]any) map[int][]any {
	m := make(map[int][]any, len(rows))
	for i, r := range rows {
		m[i] = r
	}
	return m
}

func TestImportHistory_Wide(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	data := buildWorkbook(t, "History", sheetRows(
		[]any{"Chapter", "2021", "2022"},
		[]any{"Alpha", "10", "15"},
	))

	summary, err := im.ImportHistory(ctx, data, false)
	require.NoError(t, err)
	require.True(t, summary.OK)
	require.Equal(t, "wide", summary.Shape)
	require.Equal(t, 2, summary.Imported)

	points, err := repo.ChapterYearlyHistory(ctx, alpha.ID)
	require.NoError(t, err)
	require.Equal(t, []model.YearPoint{{Year: 2021, ActiveMembers: 10}, {Year: 2022, ActiveMembers: 15}}, points)
}

func TestImportHistory_LongUpsert(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	build := func(members string) []byte {
		return buildWorkbook(t, "History", sheetRows(
			[]any{"Chapter", "Year", "Active Members"},
			[]any{"Alpha", "2023", members},
		))
	}

	summary, err := im.ImportHistory(ctx, build("12"), false)
	require.NoError(t, err)
	require.Equal(t, "long", summary.Shape)
	require.Equal(t, 1, summary.Imported)

	// re-import updates the same snapshot in place
	_, err = im.ImportHistory(ctx, build("20"), false)
	require.NoError(t, err)

	points, err := repo.ChapterYearlyHistory(ctx, alpha.ID)
	require.NoError(t, err)
	require.Equal(t, []model.YearPoint{{Year: 2023, ActiveMembers: 20}}, points)
}

func TestImportHistory_CreatesUnknownChapters(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()

	data := buildWorkbook(t, "History", sheetRows(
		[]any{"Chapter", "2024"},
		[]any{"Brand New", "7"},
	))
	_, err := im.ImportHistory(ctx, data, false)
	require.NoError(t, err)

	chapters, err := repo.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	require.Equal(t, "Brand New", chapters[0].Name)
	require.Equal(t, "Collegiate", chapters[0].Type)
}

func TestImportHistory_UnknownLayout(t *testing.T) {
	im, _ := newTestImporter(t)
	data := buildWorkbook(t, "History", sheetRows(
		[]any{"Name", "Count"},
		[]any{"Alpha", "10"},
	))
	_, err := im.ImportHistory(context.Background(), data, false)
	require.Error(t, err)
}

func TestImportHistory_DryRunWritesNothing(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	data := buildWorkbook(t, "History", sheetRows(
		[]any{"Chapter", "2021"},
		[]any{"Alpha", "10"},
		[]any{"Ghost", "5"},
	))

	summary, err := im.ImportHistory(ctx, data, true)
	require.NoError(t, err)
	require.True(t, summary.DryRun)
	require.Equal(t, 2, summary.Imported)

	points, err := repo.ChapterYearlyHistory(ctx, alpha.ID)
	require.NoError(t, err)
	require.Empty(t, points)

	chapters, err := repo.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1) // Ghost not created

	at, err := repo.LastUploadAt(ctx, []string{KindHistory})
	require.NoError(t, err)
	require.Nil(t, at)
}

func TestImportChapters(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()

	data := buildWorkbook(t, "Chapters", sheetRows(
		[]any{"Chapter", "Type", "Location", "Charter Date"},
		[]any{"Alpha", "Collegiate", "Durham", "9/3/1977"},
		[]any{"Beta Sigma", "Alumni", "Raleigh", ""},
		[]any{"", "", "", ""},
	))

	summary, err := im.ImportChapters(ctx, data, false)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Imported)

	chapters, err := repo.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	byName := map[string]model.Chapter{}
	for _, ch := range chapters {
		byName[ch.Name] = ch
	}

	alpha := byName["Alpha"]
	require.Equal(t, "Collegiate", alpha.Type)
	require.NotNil(t, alpha.City)
	require.Equal(t, "Durham", *alpha.City)
	require.NotNil(t, alpha.University) // collegiate location doubles as university
	require.Equal(t, "Durham", *alpha.University)
	require.NotNil(t, alpha.CharterDate)
	require.Equal(t, "1977-09-03", *alpha.CharterDate)

	beta := byName["Beta Sigma"]
	require.Equal(t, "Alumni", beta.Type)
	require.Nil(t, beta.University)
	require.Nil(t, beta.CharterDate)

	// re-import keeps the generated id
	_, err = im.ImportChapters(ctx, data, false)
	require.NoError(t, err)
	after, err := repo.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, after, 2)
	for _, ch := range after {
		require.Equal(t, byName[ch.Name].ID, ch.ID)
	}
}

func TestImportEOY(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	rows := map[int][]any{
		2:  {"", "Active Members"},
		23: {"Alpha", "42"},
		24: {"Unknown Chapter", "9"},
		25: {"", ""},
		26: {"Past The Blank", "1"},
	}
	data := buildWorkbook(t, "Southeastern", rows)

	summary, err := im.ImportEOY(ctx, data, "EOY Report 2023.xlsx", false)
	require.NoError(t, err)
	require.Equal(t, 2023, summary.Year)
	require.Equal(t, 1, summary.Imported)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, []string{"Unknown Chapter"}, summary.UnknownChapters)

	points, err := repo.ChapterYearlyHistory(ctx, alpha.ID)
	require.NoError(t, err)
	require.Equal(t, []model.YearPoint{{Year: 2023, ActiveMembers: 42}}, points)
}

func TestImportEOY_MissingRegionSheet(t *testing.T) {
	im, _ := newTestImporter(t)
	data := buildWorkbook(t, "SomeOtherSheet", sheetRows([]any{"x"}))
	_, err := im.ImportEOY(context.Background(), data, "eoy.xlsx", false)
	require.Error(t, err)
}

func TestImportRoster(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	data := buildWorkbook(t, "Roster", sheetRows(
		[]any{"Chapter", "First Name", "Last Name", "Member Number", "Initiated Date", "Years Paid", "Status"},
		[]any{"Alpha", "John", "Smith", "100", "4/1/2019", "23,24,25", ""},
		[]any{"Alpha", "Old", "Timer", "101", "", "2019", ""},
		[]any{"Alpha", "Marked", "Graduate", "102", "", "", "Graduated"},
		[]any{"Nowhere", "Jane", "Doe", "103", "", "", ""},
	))

	summary, err := im.ImportRoster(ctx, data, false)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Imported)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, []string{"Nowhere"}, summary.UnknownChapters)

	roster, err := repo.Roster(ctx, alpha.ID)
	require.NoError(t, err)
	require.Len(t, roster, 3)

	byNumber := map[string]model.Member{}
	for _, m := range roster {
		require.NotNil(t, m.MemberNumber)
		byNumber[*m.MemberNumber] = m
	}

	// years-paid "23,24,25" extracts the maximum token
	john := byNumber["100"]
	require.NotNil(t, john.FinancialThroughYear)
	require.Equal(t, 2025, *john.FinancialThroughYear)
	require.NotNil(t, john.InitiatedDate)
	require.Equal(t, "2019-04-01", *john.InitiatedDate)

	require.Equal(t, "Not Financial", byNumber["101"].Status)
	require.Equal(t, "Graduated", byNumber["102"].Status)

	// re-import keeps the internal ids stable on the (chapter, number) key
	_, err = im.ImportRoster(ctx, data, false)
	require.NoError(t, err)
	again, err := repo.Roster(ctx, alpha.ID)
	require.NoError(t, err)
	require.Len(t, again, 3)
	for _, m := range again {
		require.Equal(t, byNumber[*m.MemberNumber].ID, m.ID)
	}
}

func TestImportRoster_DryRunFidelity(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	data := buildWorkbook(t, "Roster", sheetRows(
		[]any{"Chapter", "First Name", "Last Name", "Member Number"},
		[]any{"Alpha", "John", "Smith", "100"},
		[]any{"Ghost", "Jane", "Doe", "101"},
	))

	dry, err := im.ImportRoster(ctx, data, true)
	require.NoError(t, err)
	live, err := im.ImportRoster(ctx, data, false)
	require.NoError(t, err)

	require.Equal(t, live.Imported, dry.Imported)
	require.Equal(t, live.Skipped, dry.Skipped)
	require.Equal(t, live.UnknownChapters, dry.UnknownChapters)
	require.True(t, dry.DryRun)
	require.False(t, live.DryRun)

	roster, err := repo.Roster(ctx, alpha.ID)
	require.NoError(t, err)
	require.Len(t, roster, 1)
}

func TestImportPIA_ReplaceAll(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	first := buildWorkbook(t, "PIA", sheetRows(
		[]any{"Chapter", "Program Date", "Total Hours", "Program Type", "Program Description", "Black Spend Amount", "Scholarship Funds Dispursed"},
		[]any{"Alpha", "1/5/2024", "3", "Education", "Tutoring", "$120.00", ""},
		[]any{"Alpha", "2/10/2024", "2", "Social Action", "Voter drive", "", "$1,000"},
		[]any{"Alpha", "3/12/2024", "4", "BBB", "Business fair", "", ""},
	))

	summary, err := im.ImportPIA(ctx, first, false)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Imported)

	sum, err := repo.PIASummary(ctx, alpha.ID)
	require.NoError(t, err)
	require.Equal(t, 9.0, sum.TotalHours)
	require.Equal(t, 3.0, sum.EducationHours)
	require.Equal(t, 2.0, sum.SocialHours)
	require.Equal(t, 4.0, sum.BBBHours)
	require.Equal(t, 120.0, sum.BlackSpendTotal)
	require.Equal(t, 1000.0, sum.ScholarshipTotal)

	// a second import replaces the whole set
	second := buildWorkbook(t, "PIA", sheetRows(
		[]any{"Chapter", "Program Date", "Total Hours", "Program Type"},
		[]any{"Alpha", "6/1/2024", "5", "SBC"},
	))
	_, err = im.ImportPIA(ctx, second, false)
	require.NoError(t, err)

	sum, err = repo.PIASummary(ctx, alpha.ID)
	require.NoError(t, err)
	require.Equal(t, 5.0, sum.TotalHours)
	require.Equal(t, 5.0, sum.SBCHours)
	require.Equal(t, 0.0, sum.EducationHours)
}

func TestImportPIA_HeaderBelowBanner(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()
	alpha := seedChapter(t, repo, "Alpha", "Collegiate")

	data := buildWorkbook(t, "PIA", sheetRows(
		[]any{"Program Impact Activity Report"},
		[]any{""},
		[]any{"Chapter", "Date", "Hours", "BBB", "Education"},
		[]any{"Alpha", "45292", "2.5", "x", ""},
		[]any{"Ghost", "1/1/2024", "1", "", ""},
	))

	summary, err := im.ImportPIA(ctx, data, false)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Imported)
	require.Equal(t, 1, summary.Skipped)
	require.Equal(t, []string{"Ghost"}, summary.UnknownChapters)

	entries, err := repo.PIADetails(ctx, alpha.ID, "bbb")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ActivityDate)
	require.Equal(t, "2024-01-01", *entries[0].ActivityDate)
	require.Equal(t, 2.5, entries[0].Hours)

	// explicit blank Education column overrides nothing set via program text
	edu, err := repo.PIADetails(ctx, alpha.ID, "education")
	require.NoError(t, err)
	require.Empty(t, edu)
}

func TestImportAlumni(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()

	csv := "Full Name,Member #,Email,Affiliated Chapter,Financial Through,Member Type\n" +
		"John Quincy Adams,1001,jqa@example.com,Raleigh Sigmas,2025,Life Member - Gold\n" +
		"Prince,1002,prince@example.com,Durham Sigmas,2020,Regular\n" +
		",,missing-number@example.com,,,\n"

	summary, err := im.ImportAlumni(ctx, []byte(csv), false)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Inserted)
	require.Equal(t, 0, summary.Updated)
	require.Equal(t, 1, summary.Errors)

	rows, err := repo.ListAlumniMembers(ctx, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byNumber := map[string]model.AlumniMember{}
	for _, m := range rows {
		byNumber[*m.MemberNumber] = m
	}
	john := byNumber["1001"]
	require.Equal(t, "John Quincy", *john.FirstName)
	require.Equal(t, "Adams", *john.LastName)
	require.Equal(t, 2025, *john.FinancialThrough)

	prince := byNumber["1002"]
	require.Equal(t, "Prince", *prince.FirstName)
	require.Equal(t, "", *prince.LastName)

	// second run of the same file reports updates, not inserts
	summary, err = im.ImportAlumni(ctx, []byte(csv), false)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Inserted)
	require.Equal(t, 2, summary.Updated)

	rows, err = repo.ListAlumniMembers(ctx, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestImportAlumni_DryRun(t *testing.T) {
	im, repo := newTestImporter(t)
	ctx := context.Background()

	csv := "Full Name,Member #\nJohn Smith,1001\n"
	summary, err := im.ImportAlumni(ctx, []byte(csv), true)
	require.NoError(t, err)
	require.True(t, summary.DryRun)
	require.Equal(t, 1, summary.Imported)

	rows, err := repo.ListAlumniMembers(ctx, false)
	require.NoError(t, err)
	require.Empty(t, rows)
}
