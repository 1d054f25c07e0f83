package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	conn, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(conn)
}

func seedChapter(t *testing.T, repo Repository, id, name, chapterType string) model.Chapter {
	t.Helper()
	ch := model.Chapter{ID: id, Name: name, Type: chapterType, Status: "Active"}
	require.NoError(t, repo.UpsertChapters(context.Background(), []model.Chapter{ch}))
	return ch
}

func TestMigrationsIdempotent(t *testing.T) {
	conn, err := Open(":memory:")
	require.NoError(t, err)
	defer conn.Close()

	// running the migration set again must be a no-op
	require.NoError(t, migrate(conn))
}

func TestUpsertChapters_KeepsIDOnName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedChapter(t, repo, "id-1", "Alpha", "Collegiate")

	city := "Durham"
	update := model.Chapter{ID: "different-id", Name: "Alpha", Type: "Alumni", City: &city, Status: "Active"}
	require.NoError(t, repo.UpsertChapters(ctx, []model.Chapter{update}))

	chapters, err := repo.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	require.Equal(t, "id-1", chapters[0].ID)
	require.Equal(t, "Alumni", chapters[0].Type)
	require.NotNil(t, chapters[0].City)
	require.Equal(t, "Durham", *chapters[0].City)
}

func TestRecordUploadAndLastUploadAt(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	at, err := repo.LastUploadAt(ctx, []string{"yearly", "history"})
	require.NoError(t, err)
	require.Nil(t, at)

	require.NoError(t, repo.RecordUpload(ctx, "yearly"))
	require.NoError(t, repo.RecordUpload(ctx, "pia"))

	at, err = repo.LastUploadAt(ctx, []string{"yearly", "history"})
	require.NoError(t, err)
	require.NotNil(t, at)
	parsed, err := time.Parse(time.RFC3339, *at)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)

	at, err = repo.LastUploadAt(ctx, []string{"roster"})
	require.NoError(t, err)
	require.Nil(t, at)
}

func TestLatestActive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ch := seedChapter(t, repo, "id-1", "Alpha", "Collegiate")

	empty, err := repo.LatestActive(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Latest)
	require.Nil(t, empty.Year)

	snaps := []model.YearlySnapshot{
		{ID: "s1", ChapterID: ch.ID, Year: 2022, ActiveMembers: 30},
		{ID: "s2", ChapterID: ch.ID, Year: 2023, ActiveMembers: 36},
	}
	require.NoError(t, repo.UpsertYearlySnapshots(ctx, snaps))

	latest, err := repo.LatestActive(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, 36, latest.Latest)
	require.NotNil(t, latest.Year)
	require.Equal(t, 2023, *latest.Year)
	require.Equal(t, 30, latest.Prev)
	require.Equal(t, 6, latest.Delta)
}

func TestStatsActiveByTypeLatest(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	col := seedChapter(t, repo, "id-c", "Alpha", "Collegiate")
	alu := seedChapter(t, repo, "id-a", "Raleigh Sigmas", "Alumni")

	require.NoError(t, repo.UpsertYearlySnapshots(ctx, []model.YearlySnapshot{
		{ID: "s1", ChapterID: col.ID, Year: 2023, ActiveMembers: 25},
		{ID: "s2", ChapterID: alu.ID, Year: 2023, ActiveMembers: 40},
		{ID: "s3", ChapterID: col.ID, Year: 2022, ActiveMembers: 99},
	}))

	totals, err := repo.StatsActiveByTypeLatest(ctx)
	require.NoError(t, err)
	require.NotNil(t, totals.Year)
	require.Equal(t, 2023, *totals.Year)
	require.Equal(t, 25, totals.Collegiate)
	require.Equal(t, 40, totals.Alumni)
	require.Equal(t, 65, totals.Total)
}

func TestUpdateMemberStatusInChapter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ch := seedChapter(t, repo, "id-1", "Alpha", "Collegiate")

	number := "100"
	first := "John"
	require.NoError(t, repo.UpsertMembers(ctx, []model.Member{{
		ID:           "m1",
		ChapterID:    ch.ID,
		FirstName:    &first,
		MemberNumber: &number,
		Status:       "Active",
	}}))

	// by member number
	require.NoError(t, repo.UpdateMemberStatusInChapter(ctx, ch.ID, "100", "Graduated"))
	roster, err := repo.Roster(ctx, ch.ID)
	require.NoError(t, err)
	require.Equal(t, "Graduated", roster[0].Status)

	// by internal id
	require.NoError(t, repo.UpdateMemberStatusInChapter(ctx, ch.ID, "m1", "Alumni"))

	err = repo.UpdateMemberStatusInChapter(ctx, ch.ID, "nope", "Active")
	require.ErrorIs(t, err, errors.ErrRecordNotFound)
}

func TestPipelineTransferLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	col := seedChapter(t, repo, "id-c", "Alpha", "Collegiate")
	alu := seedChapter(t, repo, "id-a", "Raleigh Sigmas", "Alumni")

	aluID := alu.ID
	require.NoError(t, repo.UpsertPipelineTransfer(ctx, model.PipelineTransfer{
		MemberNumber:            "100",
		FromCollegiateChapterID: col.ID,
		ToAlumniChapterID:       &aluID,
		Status:                  "transferred",
	}))

	rows, err := repo.AlumniPipeline(ctx, alu.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "100", rows[0].MemberNumber)
	require.NotNil(t, rows[0].FromCollegiateName)
	require.Equal(t, "Alpha", *rows[0].FromCollegiateName)

	// moving back to collegiate clears the alumni assignment
	require.NoError(t, repo.UpsertPipelineTransfer(ctx, model.PipelineTransfer{
		MemberNumber:            "100",
		FromCollegiateChapterID: col.ID,
		Status:                  "collegiate",
	}))
	rows, err = repo.AlumniPipeline(ctx, alu.ID)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestEventModeration(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	e := model.Event{
		ID:        "e1",
		Title:     "Founders Day",
		StartISO:  "2026-10-01T18:00",
		TZ:        "America/New_York",
		Status:    model.EventPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	require.NoError(t, repo.InsertEvent(ctx, e))

	pending, err := repo.PendingEvents(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := repo.ApprovedEvents(ctx, "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	require.Empty(t, approved)

	require.NoError(t, repo.SetEventStatus(ctx, "e1", model.EventApproved))

	approved, err = repo.ApprovedEvents(ctx, "2026-01-01", "2026-12-31")
	require.NoError(t, err)
	require.Len(t, approved, 1)
	require.NotNil(t, approved[0].ApprovedAt)

	pending, err = repo.PendingEvents(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	require.ErrorIs(t, repo.SetEventStatus(ctx, "missing", model.EventRejected), errors.ErrRecordNotFound)
}

func TestAdvisors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	col := seedChapter(t, repo, "id-c", "Alpha", "Collegiate")
	alu := seedChapter(t, repo, "id-a", "Raleigh Sigmas", "Alumni")

	aluID := alu.ID
	a := model.Advisor{ChapterID: col.ID, AdvisingChapterID: &aluID, Name: "Marcus Hill", OrderIndex: 1}
	require.NoError(t, repo.UpsertAdvisor(ctx, &a))
	require.NotEmpty(t, a.ID)

	b := model.Advisor{ChapterID: col.ID, Name: "Andre Boyd"}
	require.NoError(t, repo.UpsertAdvisor(ctx, &b))

	advisors, err := repo.ListAdvisors(ctx, col.ID)
	require.NoError(t, err)
	require.Len(t, advisors, 2)
	// ordered by order_index, then name
	require.Equal(t, "Andre Boyd", advisors[0].Name)
	require.Equal(t, "Marcus Hill", advisors[1].Name)
	require.NotNil(t, advisors[1].AdvisingChapterName)
	require.Equal(t, "Raleigh Sigmas", *advisors[1].AdvisingChapterName)

	require.NoError(t, repo.ReorderAdvisors(ctx, []model.AdvisorOrder{
		{ID: a.ID, OrderIndex: 0},
		{ID: b.ID, OrderIndex: 5},
	}))
	advisors, err = repo.ListAdvisors(ctx, col.ID)
	require.NoError(t, err)
	require.Equal(t, "Marcus Hill", advisors[0].Name)

	advised, err := repo.AdvisedCollegiate(ctx, alu.ID)
	require.NoError(t, err)
	require.Len(t, advised, 1)
	require.Equal(t, "Alpha", advised[0].Name)

	require.NoError(t, repo.DeleteAdvisor(ctx, b.ID))
	require.ErrorIs(t, repo.DeleteAdvisor(ctx, b.ID), errors.ErrRecordNotFound)
}

func TestAlumniHonorsAndNetwork(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	strp := func(s string) *string { return &s }
	intp := func(n int) *int { return &n }

	rows := []model.AlumniMember{
		{
			MemberNumber:       strp("1001"),
			FullName:           strp("John Adams"),
			AffiliatedChapter:  strp("Raleigh Sigmas"),
			CareerField:        strp("Engineering"),
			CurrentlyFinancial: strp("True"),
			LifeMemberType:     strp("Life Member - Gold"),
			DSCMember:          strp("Yes"),
			FinancialThrough:   intp(2026),
		},
		{
			MemberNumber:       strp("1002"),
			FullName:           strp("Marcus Cole"),
			AffiliatedChapter:  strp("Durham Sigmas"),
			CareerField:        strp("Education"),
			CurrentlyFinancial: strp("False"),
			LifeMemberType:     strp("Sapphire Life"),
			JTFloydHOFMember:   strp("x"),
			FinancialThrough:   intp(2020),
		},
	}
	inserted, updated, err := repo.UpsertAlumniMembers(ctx, rows)
	require.NoError(t, err)
	require.Equal(t, 2, inserted)
	require.Equal(t, 0, updated)

	honors, err := repo.AlumniHonors(ctx, false)
	require.NoError(t, err)
	require.Equal(t, 1, honors.DSC)
	require.Equal(t, 1, honors.JTF)
	require.Equal(t, 1, honors.LifeGold)
	require.Equal(t, 1, honors.LifeSapphire)
	require.Equal(t, 0, honors.LifePlatinum)
	require.Equal(t, 2, honors.LifeTotal)

	financial, err := repo.AlumniHonors(ctx, true)
	require.NoError(t, err)
	require.Equal(t, 1, financial.DSC)
	require.Equal(t, 0, financial.JTF)

	found, err := repo.NetworkSearch(ctx, model.NetworkFilter{Industry: "engineer"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "John Adams", *found[0].FullName)

	ft := 2025
	found, err = repo.NetworkSearch(ctx, model.NetworkFilter{FinancialThroughGTE: &ft})
	require.NoError(t, err)
	require.Len(t, found, 1)

	opts, err := repo.NetworkOptions(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Education", "Engineering"}, opts.CareerFields)
	require.Equal(t, []string{"Durham Sigmas", "Raleigh Sigmas"}, opts.AffiliatedChapters)

	counts, err := repo.AlumniCountsByChapter(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
}
