package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// Repository is the storage boundary the import pipelines and handlers
// write through. Bulk methods group their writes into one transaction, so
// a mid-run failure leaves prior state intact.
type Repository interface {
	// Chapters
	ListChapters(ctx context.Context) ([]model.Chapter, error)
	GetChapter(ctx context.Context, id string) (*model.Chapter, error)
	ChapterExists(ctx context.Context, id string) (bool, error)
	UpsertChapters(ctx context.Context, chapters []model.Chapter) error

	// Yearly history
	UpsertYearlySnapshots(ctx context.Context, snaps []model.YearlySnapshot) error
	ChapterYearlyHistory(ctx context.Context, chapterID string) ([]model.YearPoint, error)
	LatestActive(ctx context.Context, chapterID string) (*model.ActiveLatest, error)

	// Roster
	UpsertMembers(ctx context.Context, members []model.Member) error
	Roster(ctx context.Context, chapterID string) ([]model.Member, error)
	UpdateMemberStatus(ctx context.Context, memberID, status string) error
	UpdateMemberStatusInChapter(ctx context.Context, chapterID, memberRef, status string) error

	// PIA activity log (replace-all)
	ReplacePIAEntries(ctx context.Context, entries []model.PIAEntry) error
	PIASummary(ctx context.Context, chapterID string) (*model.PIASummary, error)
	PIADetails(ctx context.Context, chapterID, program string) ([]model.PIAEntry, error)
	PIALast(ctx context.Context, chapterID string) (*model.PIAEntry, error)
	PIAFinancialTotals(ctx context.Context) (*model.PIAFinancialTotals, error)
	PIATop(ctx context.Context, program, chapterType string, limit int) ([]model.PIARanking, error)

	// Alumni census
	UpsertAlumniMembers(ctx context.Context, rows []model.AlumniMember) (inserted, updated int, err error)
	AlumniRoster(ctx context.Context, chapterName string) ([]model.AlumniMember, error)
	AlumniByChapter(ctx context.Context, chapterName string) ([]model.AlumniMember, error)
	AlumniCountsByChapter(ctx context.Context) ([]model.ChapterCount, error)
	NetworkSearch(ctx context.Context, f model.NetworkFilter) ([]model.AlumniMember, error)
	NetworkOptions(ctx context.Context) (*model.NetworkOptions, error)
	AlumniHonors(ctx context.Context, financialOnly bool) (*model.HonorCounts, error)
	ListAlumniMembers(ctx context.Context, financialOnly bool) ([]model.AlumniMember, error)

	// Stats
	StatsActiveByTypeLatest(ctx context.Context) (*model.TypeTotals, error)
	TopMembership(ctx context.Context, chapterType string) (*int, []model.MembershipRank, error)
	GrowthTotal(ctx context.Context) (*model.GrowthTotal, error)
	TopGrowth(ctx context.Context, chapterType string) (*model.TopGrowth, error)

	// Upload audit log
	RecordUpload(ctx context.Context, kind string) error
	LastUploadAt(ctx context.Context, kinds []string) (*string, error)

	// Documents, profiles, advisors
	InsertDocument(ctx context.Context, doc model.Document) error
	ListDocuments(ctx context.Context) ([]model.Document, error)
	UpsertChapterProfile(ctx context.Context, p model.ChapterProfile) error
	GetChapterProfile(ctx context.Context, chapterID string) (*model.ChapterProfile, error)
	ListAdvisors(ctx context.Context, chapterID string) ([]model.Advisor, error)
	UpsertAdvisor(ctx context.Context, a *model.Advisor) error
	DeleteAdvisor(ctx context.Context, id string) error
	ReorderAdvisors(ctx context.Context, items []model.AdvisorOrder) error
	AdvisedCollegiate(ctx context.Context, alumniChapterID string) ([]model.AdvisedChapter, error)

	// Events
	InsertEvent(ctx context.Context, e model.Event) error
	ApprovedEvents(ctx context.Context, start, end string) ([]model.Event, error)
	PendingEvents(ctx context.Context) ([]model.Event, error)
	SetEventStatus(ctx context.Context, id string, status model.EventStatus) error

	// Pipeline transfers
	UpsertPipelineTransfer(ctx context.Context, t model.PipelineTransfer) error
	AlumniPipeline(ctx context.Context, alumniChapterID string) ([]model.PipelineTransfer, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (r *repository) ListChapters(ctx context.Context) ([]model.Chapter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, name, type, city, university, charter_date, status,
		       instagram_url, facebook_url, latitude, longitude
		FROM chapters ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []model.Chapter
	for rows.Next() {
		c, err := scanChapter(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, *c)
	}
	return chapters, rows.Err()
}

func (r *repository) GetChapter(ctx context.Context, id string) (*model.Chapter, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, name, type, city, university, charter_date, status,
		       instagram_url, facebook_url, latitude, longitude
		FROM chapters WHERE id = ?`, id)
	c, err := scanChapter(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *repository) ChapterExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM chapters WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *repository) UpsertChapters(ctx context.Context, chapters []model.Chapter) error {
	if len(chapters) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// The identifier never changes once a name exists: the conflict clause
	// updates descriptive fields only.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chapters (id, code, name, type, city, university, charter_date, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		  type = excluded.type,
		  city = excluded.city,
		  university = excluded.university,
		  charter_date = excluded.charter_date,
		  status = excluded.status`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range chapters {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Code, c.Name, c.Type,
			c.City, c.University, c.CharterDate, c.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *repository) UpsertYearlySnapshots(ctx context.Context, snaps []model.YearlySnapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO yearly_history (id, chapter_id, year, active_members, notes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chapter_id, year) DO UPDATE SET
		  active_members = excluded.active_members,
		  notes = excluded.notes`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range snaps {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, s.ID, s.ChapterID, s.Year, s.ActiveMembers, s.Notes); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *repository) UpsertMembers(ctx context.Context, members []model.Member) error {
	if len(members) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO members (id, chapter_id, first_name, last_name, member_number,
		                     initiated_date, financial_through_year, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chapter_id, member_number) DO UPDATE SET
		  first_name = excluded.first_name,
		  last_name = excluded.last_name,
		  initiated_date = excluded.initiated_date,
		  financial_through_year = excluded.financial_through_year,
		  status = excluded.status`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range members {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, err := stmt.ExecContext(ctx, m.ID, m.ChapterID, m.FirstName, m.LastName,
			m.MemberNumber, m.InitiatedDate, m.FinancialThroughYear, m.Status); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ReplacePIAEntries wipes the activity log and inserts the new set in one
// transaction. The upload is the single current truth for this domain.
func (r *repository) ReplacePIAEntries(ctx context.Context, entries []model.PIAEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pia_entries`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pia_entries (
		  id, chapter_id, activity_date, report_year, hours,
		  is_bbb, is_education, is_social, is_sbc,
		  description, brothers_attending,
		  black_spend_amount, scholarship_funds_disbursed, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt == "" {
			e.CreatedAt = nowISO()
		}
		if _, err := stmt.ExecContext(ctx, e.ID, e.ChapterID, e.ActivityDate, e.ReportYear,
			e.Hours, e.IsBBB, e.IsEducation, e.IsSocial, e.IsSBC,
			e.Description, e.BrothersAttending,
			e.BlackSpendAmount, e.ScholarshipFundsDisbursed, e.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *repository) UpsertAlumniMembers(ctx context.Context, rows []model.AlumniMember) (int, int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	existsStmt, err := tx.PrepareContext(ctx, `SELECT 1 FROM alumni_members WHERE member_number = ?`)
	if err != nil {
		return 0, 0, err
	}
	defer existsStmt.Close()

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO alumni_members (
		  member_number, full_name, first_name, last_name, email,
		  affiliated_chapter, affiliated_chapter_number, affiliated_chapter_region, affiliated_chapter_university,
		  initiated_chapter, initiated_chapter_region, initiated_chapter_university,
		  initiated_year, initiated_date, member_type, life_member_type, currently_financial,
		  consecutive_dues, financial_through, career_field_code, career_field,
		  military_affiliation, active_duty, last_rank_achieved, former_sbc, dsc_member,
		  dsc_number, al_locke_scholar, al_locke_scholar_number, jt_floyd_hof_member, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,datetime('now'))
		ON CONFLICT(member_number) DO UPDATE SET
		  full_name = excluded.full_name,
		  first_name = excluded.first_name,
		  last_name = excluded.last_name,
		  email = excluded.email,
		  affiliated_chapter = excluded.affiliated_chapter,
		  affiliated_chapter_number = excluded.affiliated_chapter_number,
		  affiliated_chapter_region = excluded.affiliated_chapter_region,
		  affiliated_chapter_university = excluded.affiliated_chapter_university,
		  initiated_chapter = excluded.initiated_chapter,
		  initiated_chapter_region = excluded.initiated_chapter_region,
		  initiated_chapter_university = excluded.initiated_chapter_university,
		  initiated_year = excluded.initiated_year,
		  initiated_date = excluded.initiated_date,
		  member_type = excluded.member_type,
		  life_member_type = excluded.life_member_type,
		  currently_financial = excluded.currently_financial,
		  consecutive_dues = excluded.consecutive_dues,
		  financial_through = excluded.financial_through,
		  career_field_code = excluded.career_field_code,
		  career_field = excluded.career_field,
		  military_affiliation = excluded.military_affiliation,
		  active_duty = excluded.active_duty,
		  last_rank_achieved = excluded.last_rank_achieved,
		  former_sbc = excluded.former_sbc,
		  dsc_member = excluded.dsc_member,
		  dsc_number = excluded.dsc_number,
		  al_locke_scholar = excluded.al_locke_scholar,
		  al_locke_scholar_number = excluded.al_locke_scholar_number,
		  jt_floyd_hof_member = excluded.jt_floyd_hof_member,
		  updated_at = datetime('now')`)
	if err != nil {
		return 0, 0, err
	}
	defer upsert.Close()

	inserted, updated := 0, 0
	for _, a := range rows {
		var one int
		existed := true
		if err := existsStmt.QueryRowContext(ctx, a.MemberNumber).Scan(&one); err == sql.ErrNoRows {
			existed = false
		} else if err != nil {
			return 0, 0, err
		}

		if _, err := upsert.ExecContext(ctx,
			a.MemberNumber, a.FullName, a.FirstName, a.LastName, a.Email,
			a.AffiliatedChapter, a.AffiliatedChapterNumber, a.AffiliatedChapterRegion, a.AffiliatedChapterUniversity,
			a.InitiatedChapter, a.InitiatedChapterRegion, a.InitiatedChapterUniversity,
			a.InitiatedYear, a.InitiatedDate, a.MemberType, a.LifeMemberType, a.CurrentlyFinancial,
			a.ConsecutiveDues, a.FinancialThrough, a.CareerFieldCode, a.CareerField,
			a.MilitaryAffiliation, a.ActiveDuty, a.LastRankAchieved, a.FormerSBC, a.DSCMember,
			a.DSCNumber, a.ALLockeScholar, a.ALLockeScholarNumber, a.JTFloydHOFMember); err != nil {
			return 0, 0, err
		}
		if existed {
			updated++
		} else {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

func (r *repository) RecordUpload(ctx context.Context, kind string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO uploads (id, kind, occurred_at) VALUES (?, ?, ?)`,
		uuid.NewString(), kind, nowISO())
	return err
}

func (r *repository) LastUploadAt(ctx context.Context, kinds []string) (*string, error) {
	if len(kinds) == 0 {
		return nil, nil
	}
	placeholders := make([]byte, 0, len(kinds)*2)
	args := make([]any, 0, len(kinds))
	for i, k := range kinds {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, k)
	}
	var at string
	err := r.db.QueryRowContext(ctx,
		`SELECT occurred_at FROM uploads WHERE kind IN (`+string(placeholders)+`)
		 ORDER BY occurred_at DESC LIMIT 1`, args...).Scan(&at)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChapter(row rowScanner) (*model.Chapter, error) {
	var c model.Chapter
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Type, &c.City, &c.University,
		&c.CharterDate, &c.Status, &c.InstagramURL, &c.FacebookURL,
		&c.Latitude, &c.Longitude)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
