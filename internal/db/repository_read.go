package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

// trueTokens matches the case-insensitive truthy text the census export
// uses, including the bare 'x' spreadsheet mark.
const trueTokens = `('true','1','yes','y','x')`

// moneyExpr coerces a money column that may hold either REAL values or
// historical "$1,234" text.
func moneyExpr(col string) string {
	return `SUM(CASE
	  WHEN ` + col + ` IS NULL THEN 0
	  WHEN typeof(` + col + `)='text'
	    THEN CAST(REPLACE(REPLACE(` + col + `,'$',''),',','') AS REAL)
	  ELSE COALESCE(` + col + `,0)
	END)`
}

func (r *repository) ChapterYearlyHistory(ctx context.Context, chapterID string) ([]model.YearPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT year, active_members FROM yearly_history
		WHERE chapter_id = ? ORDER BY year`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []model.YearPoint
	for rows.Next() {
		var p model.YearPoint
		if err := rows.Scan(&p.Year, &p.ActiveMembers); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *repository) LatestActive(ctx context.Context, chapterID string) (*model.ActiveLatest, error) {
	points, err := r.ChapterYearlyHistory(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	out := &model.ActiveLatest{}
	if len(points) == 0 {
		return out, nil
	}
	last := points[len(points)-1]
	out.Latest = last.ActiveMembers
	out.Year = &last.Year
	if len(points) >= 2 {
		out.Prev = points[len(points)-2].ActiveMembers
	}
	out.Delta = out.Latest - out.Prev
	return out, nil
}

func (r *repository) Roster(ctx context.Context, chapterID string) ([]model.Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chapter_id, first_name, last_name, member_number, initiated_date,
		       financial_through_year, status, transitioned_alumni_chapter_id, graduation_year
		FROM members
		WHERE chapter_id = ?
		ORDER BY last_name COLLATE NOCASE, first_name COLLATE NOCASE`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		var status sql.NullString
		if err := rows.Scan(&m.ID, &m.ChapterID, &m.FirstName, &m.LastName, &m.MemberNumber,
			&m.InitiatedDate, &m.FinancialThroughYear, &status,
			&m.TransitionedAlumniChapterID, &m.GraduationYear); err != nil {
			return nil, err
		}
		m.Status = "Active"
		if status.Valid && status.String != "" {
			m.Status = status.String
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

const alumniColumns = `
	id, member_number, full_name, first_name, last_name, email,
	affiliated_chapter, affiliated_chapter_number, affiliated_chapter_region, affiliated_chapter_university,
	initiated_chapter, initiated_chapter_region, initiated_chapter_university,
	initiated_year, initiated_date, member_type, life_member_type, currently_financial,
	consecutive_dues, financial_through, career_field_code, career_field,
	military_affiliation, active_duty, last_rank_achieved, former_sbc, dsc_member,
	dsc_number, al_locke_scholar, al_locke_scholar_number, jt_floyd_hof_member`

func scanAlumni(rows *sql.Rows) (*model.AlumniMember, error) {
	var a model.AlumniMember
	err := rows.Scan(&a.ID, &a.MemberNumber, &a.FullName, &a.FirstName, &a.LastName, &a.Email,
		&a.AffiliatedChapter, &a.AffiliatedChapterNumber, &a.AffiliatedChapterRegion, &a.AffiliatedChapterUniversity,
		&a.InitiatedChapter, &a.InitiatedChapterRegion, &a.InitiatedChapterUniversity,
		&a.InitiatedYear, &a.InitiatedDate, &a.MemberType, &a.LifeMemberType, &a.CurrentlyFinancial,
		&a.ConsecutiveDues, &a.FinancialThrough, &a.CareerFieldCode, &a.CareerField,
		&a.MilitaryAffiliation, &a.ActiveDuty, &a.LastRankAchieved, &a.FormerSBC, &a.DSCMember,
		&a.DSCNumber, &a.ALLockeScholar, &a.ALLockeScholarNumber, &a.JTFloydHOFMember)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) collectAlumni(ctx context.Context, query string, args ...any) ([]model.AlumniMember, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AlumniMember
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// AlumniRoster lists the living census rows affiliated with a chapter, for
// the chapter page roster table.
func (r *repository) AlumniRoster(ctx context.Context, chapterName string) ([]model.AlumniMember, error) {
	return r.collectAlumni(ctx, `
		SELECT `+alumniColumns+`
		FROM alumni_members
		WHERE lower(trim(affiliated_chapter)) = lower(trim(?))
		  AND lower(trim(COALESCE(member_type,''))) != 'deceased alumni'
		ORDER BY full_name COLLATE NOCASE`, chapterName)
}

func (r *repository) AlumniByChapter(ctx context.Context, chapterName string) ([]model.AlumniMember, error) {
	return r.collectAlumni(ctx, `
		SELECT `+alumniColumns+`
		FROM alumni_members
		WHERE affiliated_chapter = ?
		ORDER BY full_name COLLATE NOCASE
		LIMIT 1000`, chapterName)
}

func (r *repository) AlumniCountsByChapter(ctx context.Context) ([]model.ChapterCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT affiliated_chapter, COUNT(*) AS count
		FROM alumni_members
		WHERE affiliated_chapter IS NOT NULL AND TRIM(affiliated_chapter) <> ''
		GROUP BY affiliated_chapter
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []model.ChapterCount
	for rows.Next() {
		var c model.ChapterCount
		if err := rows.Scan(&c.Chapter, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (r *repository) NetworkSearch(ctx context.Context, f model.NetworkFilter) ([]model.AlumniMember, error) {
	var where []string
	var args []any

	if f.Query != "" {
		where = append(where, `(full_name LIKE ? OR email LIKE ? OR member_number LIKE ? OR career_field LIKE ?)`)
		q := "%" + f.Query + "%"
		args = append(args, q, q, q, q)
	}
	if f.Chapter != "" {
		where = append(where, `affiliated_chapter = ?`)
		args = append(args, f.Chapter)
	}
	if f.Industry != "" {
		where = append(where, `career_field LIKE ?`)
		args = append(args, "%"+f.Industry+"%")
	}
	if f.Military != "" {
		where = append(where, `military_affiliation LIKE ?`)
		args = append(args, "%"+f.Military+"%")
	}
	if f.ActiveDuty != "" {
		where = append(where, `active_duty = ?`)
		args = append(args, f.ActiveDuty)
	}
	if f.FinancialThroughGTE != nil {
		where = append(where, `financial_through >= ?`)
		args = append(args, *f.FinancialThroughGTE)
	}

	query := `SELECT ` + alumniColumns + ` FROM alumni_members`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY full_name COLLATE NOCASE LIMIT 500`
	return r.collectAlumni(ctx, query, args...)
}

func (r *repository) NetworkOptions(ctx context.Context) (*model.NetworkOptions, error) {
	distinct := func(col string) ([]string, error) {
		rows, err := r.db.QueryContext(ctx, `
			SELECT DISTINCT `+col+` AS v FROM alumni_members
			WHERE `+col+` IS NOT NULL AND TRIM(`+col+`) <> ''
			ORDER BY v COLLATE NOCASE`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		var vals []string
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, rows.Err()
	}

	careers, err := distinct("career_field")
	if err != nil {
		return nil, err
	}
	chapters, err := distinct("affiliated_chapter")
	if err != nil {
		return nil, err
	}
	return &model.NetworkOptions{CareerFields: careers, AffiliatedChapters: chapters}, nil
}

func (r *repository) AlumniHonors(ctx context.Context, financialOnly bool) (*model.HonorCounts, error) {
	whereCF := ""
	if financialOnly {
		whereCF = `WHERE LOWER(TRIM(COALESCE(currently_financial,''))) IN ` + trueTokens
	}
	var h model.HonorCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  COALESCE(SUM(CASE WHEN LOWER(TRIM(COALESCE(dsc_member,''))) IN `+trueTokens+` THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN LOWER(TRIM(COALESCE(jt_floyd_hof_member,''))) IN `+trueTokens+` THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN LOWER(TRIM(COALESCE(life_member_type,''))) LIKE '%gold%' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN LOWER(TRIM(COALESCE(life_member_type,''))) LIKE '%sapphire%' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN LOWER(TRIM(COALESCE(life_member_type,''))) LIKE '%platinum%' THEN 1 ELSE 0 END), 0)
		FROM alumni_members `+whereCF).
		Scan(&h.DSC, &h.JTF, &h.LifeGold, &h.LifeSapphire, &h.LifePlatinum)
	if err != nil {
		return nil, err
	}
	h.LifeTotal = h.LifeGold + h.LifeSapphire + h.LifePlatinum
	return &h, nil
}

func (r *repository) ListAlumniMembers(ctx context.Context, financialOnly bool) ([]model.AlumniMember, error) {
	whereCF := ""
	if financialOnly {
		whereCF = `WHERE LOWER(TRIM(COALESCE(currently_financial,''))) IN ` + trueTokens
	}
	return r.collectAlumni(ctx, `
		SELECT `+alumniColumns+`
		FROM alumni_members `+whereCF+`
		ORDER BY full_name COLLATE NOCASE
		LIMIT 5000`)
}

func (r *repository) latestYear(ctx context.Context) (*int, error) {
	var y sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(year) FROM yearly_history`).Scan(&y); err != nil {
		return nil, err
	}
	if !y.Valid {
		return nil, nil
	}
	year := int(y.Int64)
	return &year, nil
}

func (r *repository) StatsActiveByTypeLatest(ctx context.Context) (*model.TypeTotals, error) {
	year, err := r.latestYear(ctx)
	if err != nil {
		return nil, err
	}
	out := &model.TypeTotals{Year: year}
	if year == nil {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT LOWER(c.type), COALESCE(SUM(y.active_members), 0)
		FROM yearly_history y JOIN chapters c ON c.id = y.chapter_id
		WHERE y.year = ? GROUP BY LOWER(c.type)`, *year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var typ string
		var members int
		if err := rows.Scan(&typ, &members); err != nil {
			return nil, err
		}
		switch typ {
		case "alumni":
			out.Alumni = members
		case "collegiate":
			out.Collegiate = members
		}
	}
	out.Total = out.Alumni + out.Collegiate
	return out, rows.Err()
}

func (r *repository) TopMembership(ctx context.Context, chapterType string) (*int, []model.MembershipRank, error) {
	year, err := r.latestYear(ctx)
	if err != nil {
		return nil, nil, err
	}
	if year == nil {
		return nil, nil, nil
	}

	query := `
		SELECT c.id, c.name, c.type, y.active_members
		FROM yearly_history y JOIN chapters c ON c.id = y.chapter_id
		WHERE y.year = ?`
	args := []any{*year}
	if chapterType == "alumni" || chapterType == "collegiate" {
		query += ` AND LOWER(c.type) = ?`
		args = append(args, chapterType)
	}
	query += ` ORDER BY y.active_members DESC, c.name LIMIT 5`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var ranks []model.MembershipRank
	for rows.Next() {
		var m model.MembershipRank
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.Members); err != nil {
			return nil, nil, err
		}
		ranks = append(ranks, m)
	}
	return year, ranks, rows.Err()
}

func (r *repository) prevYear(ctx context.Context, before int) (*int, error) {
	var y sql.NullInt64
	if err := r.db.QueryRowContext(ctx,
		`SELECT MAX(year) FROM yearly_history WHERE year < ?`, before).Scan(&y); err != nil {
		return nil, err
	}
	if !y.Valid {
		return nil, nil
	}
	year := int(y.Int64)
	return &year, nil
}

func growthPct(delta, prev, now int) float64 {
	if prev > 0 {
		return float64(delta) / float64(prev) * 100
	}
	if now > 0 {
		return 100
	}
	return 0
}

func (r *repository) GrowthTotal(ctx context.Context) (*model.GrowthTotal, error) {
	yNow, err := r.latestYear(ctx)
	if err != nil {
		return nil, err
	}
	out := &model.GrowthTotal{Year: yNow}
	if yNow == nil {
		return out, nil
	}
	yPrev, err := r.prevYear(ctx, *yNow)
	if err != nil {
		return nil, err
	}
	out.PrevYear = yPrev

	total := func(year int) (int, error) {
		var s sql.NullInt64
		err := r.db.QueryRowContext(ctx,
			`SELECT SUM(active_members) FROM yearly_history WHERE year = ?`, year).Scan(&s)
		return int(s.Int64), err
	}
	if out.TotalNow, err = total(*yNow); err != nil {
		return nil, err
	}
	if yPrev != nil {
		if out.TotalPrev, err = total(*yPrev); err != nil {
			return nil, err
		}
	}
	out.Delta = out.TotalNow - out.TotalPrev
	out.Pct = growthPct(out.Delta, out.TotalPrev, out.TotalNow)
	return out, nil
}

func (r *repository) TopGrowth(ctx context.Context, chapterType string) (*model.TopGrowth, error) {
	yNow, err := r.latestYear(ctx)
	if err != nil {
		return nil, err
	}
	out := &model.TopGrowth{Year: yNow}
	if yNow == nil {
		return out, nil
	}
	yPrev, err := r.prevYear(ctx, *yNow)
	if err != nil {
		return nil, err
	}
	out.PrevYear = yPrev

	prevArg := -1
	if yPrev != nil {
		prevArg = *yPrev
	}

	query := `
		WITH now AS (
		  SELECT chapter_id, active_members FROM yearly_history WHERE year = ?
		),
		prev AS (
		  SELECT chapter_id, active_members FROM yearly_history WHERE year = ?
		)
		SELECT
		  c.id, c.name, LOWER(c.type),
		  COALESCE(n.active_members, 0),
		  COALESCE(p.active_members, 0)
		FROM chapters c
		LEFT JOIN now n ON n.chapter_id = c.id
		LEFT JOIN prev p ON p.chapter_id = c.id`
	args := []any{*yNow, prevArg}
	if chapterType == "alumni" || chapterType == "collegiate" {
		query += ` WHERE LOWER(c.type) = ?`
		args = append(args, chapterType)
	}
	query += ` ORDER BY (COALESCE(n.active_members,0) - COALESCE(p.active_members,0)) DESC, c.name LIMIT 5`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var g model.GrowthRank
		if err := rows.Scan(&g.ID, &g.Name, &g.Type, &g.MembersNow, &g.MembersPrev); err != nil {
			return nil, err
		}
		g.Delta = g.MembersNow - g.MembersPrev
		g.Pct = growthPct(g.Delta, g.MembersPrev, g.MembersNow)
		out.Rows = append(out.Rows, g)
	}
	return out, rows.Err()
}

func programClause(program, alias string) string {
	prefix := ""
	if alias != "" {
		prefix = alias + "."
	}
	switch program {
	case "bbb":
		return prefix + "is_bbb = 1"
	case "education":
		return prefix + "is_education = 1"
	case "social":
		return prefix + "is_social = 1"
	case "sbc":
		return prefix + "is_sbc = 1"
	default:
		return "1=1"
	}
}

func (r *repository) PIATop(ctx context.Context, program, chapterType string, limit int) ([]model.PIARanking, error) {
	query := `
		SELECT c.id, c.name, LOWER(c.type), ROUND(SUM(p.hours), 2)
		FROM pia_entries p
		JOIN chapters c ON c.id = p.chapter_id
		WHERE ` + programClause(program, "p")
	var args []any
	if chapterType == "alumni" || chapterType == "collegiate" {
		query += ` AND LOWER(c.type) = ?`
		args = append(args, chapterType)
	}
	query += ` GROUP BY c.id, c.name, c.type ORDER BY SUM(p.hours) DESC, c.name LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranks []model.PIARanking
	for rows.Next() {
		var p model.PIARanking
		if err := rows.Scan(&p.ChapterID, &p.Name, &p.Type, &p.Value); err != nil {
			return nil, err
		}
		ranks = append(ranks, p)
	}
	return ranks, rows.Err()
}

func (r *repository) PIASummary(ctx context.Context, chapterID string) (*model.PIASummary, error) {
	var s model.PIASummary
	var total, bbb, social, edu, sbc, spend, schol sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT
		  SUM(hours),
		  SUM(CASE WHEN is_bbb = 1 THEN hours ELSE 0 END),
		  SUM(CASE WHEN is_social = 1 THEN hours ELSE 0 END),
		  SUM(CASE WHEN is_education = 1 THEN hours ELSE 0 END),
		  SUM(CASE WHEN is_sbc = 1 THEN hours ELSE 0 END),
		  `+moneyExpr("black_spend_amount")+`,
		  `+moneyExpr("scholarship_funds_disbursed")+`
		FROM pia_entries WHERE chapter_id = ?`, chapterID).
		Scan(&total, &bbb, &social, &edu, &sbc, &spend, &schol)
	if err != nil {
		return nil, err
	}
	s.TotalHours = total.Float64
	s.BBBHours = bbb.Float64
	s.SocialHours = social.Float64
	s.EducationHours = edu.Float64
	s.SBCHours = sbc.Float64
	s.BlackSpendTotal = spend.Float64
	s.ScholarshipTotal = schol.Float64

	s.AsOf, err = r.LastUploadAt(ctx, []string{"pia"})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) PIAFinancialTotals(ctx context.Context) (*model.PIAFinancialTotals, error) {
	var spend, schol sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
		SELECT `+moneyExpr("black_spend_amount")+`, `+moneyExpr("scholarship_funds_disbursed")+`
		FROM pia_entries`).Scan(&spend, &schol)
	if err != nil {
		return nil, err
	}
	out := &model.PIAFinancialTotals{
		BlackSpendTotal:  spend.Float64,
		ScholarshipTotal: schol.Float64,
	}
	out.AsOf, err = r.LastUploadAt(ctx, []string{"pia"})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) PIADetails(ctx context.Context, chapterID, program string) ([]model.PIAEntry, error) {
	query := `
		SELECT id, chapter_id, activity_date, report_year, hours,
		       is_bbb, is_education, is_social, is_sbc,
		       description, brothers_attending,
		       black_spend_amount, scholarship_funds_disbursed, COALESCE(created_at, '')
		FROM pia_entries
		WHERE chapter_id = ? AND ` + programClause(program, "") + `
		ORDER BY COALESCE(activity_date, '') DESC, COALESCE(created_at, '') DESC`

	rows, err := r.db.QueryContext(ctx, query, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.PIAEntry
	for rows.Next() {
		var e model.PIAEntry
		if err := rows.Scan(&e.ID, &e.ChapterID, &e.ActivityDate, &e.ReportYear, &e.Hours,
			&e.IsBBB, &e.IsEducation, &e.IsSocial, &e.IsSBC,
			&e.Description, &e.BrothersAttending,
			&e.BlackSpendAmount, &e.ScholarshipFundsDisbursed, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) PIALast(ctx context.Context, chapterID string) (*model.PIAEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chapter_id, activity_date, report_year, hours,
		       is_bbb, is_education, is_social, is_sbc,
		       description, brothers_attending,
		       black_spend_amount, scholarship_funds_disbursed, COALESCE(created_at, '')
		FROM pia_entries
		WHERE chapter_id = ?
		ORDER BY COALESCE(activity_date, created_at) DESC
		LIMIT 1`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var e model.PIAEntry
	if err := rows.Scan(&e.ID, &e.ChapterID, &e.ActivityDate, &e.ReportYear, &e.Hours,
		&e.IsBBB, &e.IsEducation, &e.IsSocial, &e.IsSBC,
		&e.Description, &e.BrothersAttending,
		&e.BlackSpendAmount, &e.ScholarshipFundsDisbursed, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
