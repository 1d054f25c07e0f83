package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

func (r *repository) InsertDocument(ctx context.Context, doc model.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Visibility == "" {
		doc.Visibility = "public"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, chapter_id, title, doc_type, "group", publish_date, file_url, visibility, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.ChapterID, doc.Title, doc.DocType, doc.Group,
		doc.PublishDate, doc.FileURL, doc.Visibility, doc.Tags)
	return err
}

func (r *repository) ListDocuments(ctx context.Context) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chapter_id, title, doc_type, "group", publish_date, file_url, visibility, tags
		FROM documents
		ORDER BY COALESCE(publish_date, '9999-12-31') DESC, title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.ChapterID, &d.Title, &d.DocType, &d.Group,
			&d.PublishDate, &d.FileURL, &d.Visibility, &d.Tags); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *repository) UpsertChapterProfile(ctx context.Context, p model.ChapterProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chapter_profiles (chapter_id, crest_url, president_name, president_email, president_photo_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chapter_id) DO UPDATE SET
		  crest_url = excluded.crest_url,
		  president_name = excluded.president_name,
		  president_email = excluded.president_email,
		  president_photo_url = excluded.president_photo_url`,
		p.ChapterID, p.CrestURL, p.PresidentName, p.PresidentEmail, p.PresidentPhotoURL)
	return err
}

func (r *repository) GetChapterProfile(ctx context.Context, chapterID string) (*model.ChapterProfile, error) {
	var p model.ChapterProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT chapter_id, crest_url, president_name, president_email, president_photo_url
		FROM chapter_profiles WHERE chapter_id = ?`, chapterID).
		Scan(&p.ChapterID, &p.CrestURL, &p.PresidentName, &p.PresidentEmail, &p.PresidentPhotoURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListAdvisors(ctx context.Context, chapterID string) ([]model.Advisor, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.chapter_id, a.advising_chapter_id, c2.name,
		       a.name, a.email, a.phone, a.role, a.photo_url,
		       a.order_index, a.created_at, a.updated_at
		FROM chapter_advisors a
		LEFT JOIN chapters c2 ON c2.id = a.advising_chapter_id
		WHERE a.chapter_id = ?
		ORDER BY a.order_index, a.name COLLATE NOCASE`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var advisors []model.Advisor
	for rows.Next() {
		var a model.Advisor
		if err := rows.Scan(&a.ID, &a.ChapterID, &a.AdvisingChapterID, &a.AdvisingChapterName,
			&a.Name, &a.Email, &a.Phone, &a.Role, &a.PhotoURL,
			&a.OrderIndex, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		advisors = append(advisors, a)
	}
	return advisors, rows.Err()
}

func (r *repository) UpsertAdvisor(ctx context.Context, a *model.Advisor) error {
	now := nowISO()
	if a.ID != "" {
		var one int
		if err := r.db.QueryRowContext(ctx,
			`SELECT 1 FROM chapter_advisors WHERE id = ?`, a.ID).Scan(&one); err == sql.ErrNoRows {
			return errors.ErrRecordNotFound
		} else if err != nil {
			return err
		}
		_, err := r.db.ExecContext(ctx, `
			UPDATE chapter_advisors
			SET chapter_id = ?,
			    advising_chapter_id = COALESCE(?, advising_chapter_id),
			    name = ?, email = ?, phone = ?, role = ?, photo_url = ?,
			    order_index = COALESCE(?, order_index),
			    updated_at = ?
			WHERE id = ?`,
			a.ChapterID, a.AdvisingChapterID, a.Name, a.Email, a.Phone, a.Role,
			a.PhotoURL, a.OrderIndex, now, a.ID)
		return err
	}

	a.ID = uuid.NewString()
	a.CreatedAt = now
	a.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chapter_advisors (
		  id, chapter_id, advising_chapter_id, name, email, phone, role, photo_url,
		  order_index, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.ChapterID, a.AdvisingChapterID, a.Name, a.Email, a.Phone, a.Role,
		a.PhotoURL, a.OrderIndex, now, now)
	return err
}

func (r *repository) DeleteAdvisor(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM chapter_advisors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ReorderAdvisors(ctx context.Context, items []model.AdvisorOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := nowISO()
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`UPDATE chapter_advisors SET order_index = ?, updated_at = ? WHERE id = ?`,
			it.OrderIndex, now, it.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *repository) AdvisedCollegiate(ctx context.Context, alumniChapterID string) ([]model.AdvisedChapter, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT c.id, c.name, c.university, c.city, cp.crest_url
		FROM chapter_advisors ca
		JOIN chapters c ON c.id = ca.chapter_id
		LEFT JOIN chapter_profiles cp ON cp.chapter_id = c.id
		WHERE ca.advising_chapter_id = ? AND LOWER(c.type) = 'collegiate'
		ORDER BY c.name COLLATE NOCASE`, alumniChapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AdvisedChapter
	for rows.Next() {
		var a model.AdvisedChapter
		if err := rows.Scan(&a.ID, &a.Name, &a.University, &a.City, &a.CrestURL); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) InsertEvent(ctx context.Context, e model.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
		  id, chapter_id, title, description, location,
		  start_iso, end_iso, start_utc, end_utc, tz,
		  flyer_url, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ChapterID, e.Title, e.Description, e.Location,
		e.StartISO, e.EndISO, e.StartUTC, e.EndUTC, e.TZ,
		e.FlyerURL, e.Status, e.CreatedAt)
	return err
}

func (r *repository) scanEvents(rows *sql.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var e model.Event
		var tz sql.NullString
		if err := rows.Scan(&e.ID, &e.ChapterID, &e.Title, &e.Description, &e.Location,
			&e.StartISO, &e.EndISO, &e.StartUTC, &e.EndUTC, &tz,
			&e.FlyerURL, &e.Status, &e.CreatedAt, &e.ApprovedAt, &e.ChapterName); err != nil {
			return nil, err
		}
		e.TZ = "America/New_York"
		if tz.Valid && tz.String != "" {
			e.TZ = tz.String
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const eventColumns = `
	e.id, e.chapter_id, e.title, e.description, e.location,
	e.start_iso, e.end_iso, e.start_utc, e.end_utc, e.tz,
	e.flyer_url, e.status, e.created_at, e.approved_at, c.name`

func (r *repository) ApprovedEvents(ctx context.Context, start, end string) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		LEFT JOIN chapters c ON c.id = e.chapter_id
		WHERE e.status = 'approved'
		  AND date(substr(e.start_iso, 1, 10)) < date(?)
		  AND date(substr(e.start_iso, 1, 10)) >= date(?)
		ORDER BY e.start_iso`, end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

func (r *repository) PendingEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events e
		LEFT JOIN chapters c ON c.id = e.chapter_id
		WHERE e.status = 'pending'
		ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanEvents(rows)
}

func (r *repository) SetEventStatus(ctx context.Context, id string, status model.EventStatus) error {
	var res sql.Result
	var err error
	if status == model.EventApproved {
		res, err = r.db.ExecContext(ctx,
			`UPDATE events SET status = ?, approved_at = ? WHERE id = ?`, status, nowISO(), id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE events SET status = ? WHERE id = ?`, status, id)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateMemberStatus(ctx context.Context, memberID, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE members SET status = ? WHERE id = ?`, status, memberID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrRecordNotFound
	}
	return nil
}

// UpdateMemberStatusInChapter resolves the member by internal id or member
// number within the chapter, which is what the roster dropdown sends.
func (r *repository) UpdateMemberStatusInChapter(ctx context.Context, chapterID, memberRef, status string) error {
	var id string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM members WHERE chapter_id = ? AND (id = ? OR member_number = ?)`,
		chapterID, memberRef, memberRef).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.ErrRecordNotFound
	}
	if err != nil {
		return err
	}
	return r.UpdateMemberStatus(ctx, id, status)
}

func (r *repository) UpsertPipelineTransfer(ctx context.Context, t model.PipelineTransfer) error {
	now := nowISO()
	var existing int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM pipeline_transfers WHERE member_number = ?`, t.MemberNumber).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		var transferredAt *string
		if t.Status == "transferred" {
			transferredAt = &now
		}
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO pipeline_transfers
			  (member_number, from_collegiate_chapter_id, to_alumni_chapter_id, status, transferred_at)
			VALUES (?, ?, ?, ?, ?)`,
			t.MemberNumber, t.FromCollegiateChapterID, t.ToAlumniChapterID, t.Status, transferredAt)
		return err
	case err != nil:
		return err
	}

	// Moving back to collegiate clears the alumni assignment.
	_, err = r.db.ExecContext(ctx, `
		UPDATE pipeline_transfers
		SET status = ?,
		    to_alumni_chapter_id = CASE
		      WHEN ? = 'collegiate' THEN NULL
		      WHEN ? IS NOT NULL THEN ?
		      ELSE to_alumni_chapter_id
		    END,
		    transferred_at = CASE WHEN ? = 'transferred' THEN ? ELSE transferred_at END
		WHERE member_number = ?`,
		t.Status, t.Status, t.ToAlumniChapterID, t.ToAlumniChapterID,
		t.Status, now, t.MemberNumber)
	return err
}

func (r *repository) AlumniPipeline(ctx context.Context, alumniChapterID string) ([]model.PipelineTransfer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT pt.id, pt.member_number, pt.from_collegiate_chapter_id,
		       pt.to_alumni_chapter_id, pt.status, pt.transferred_at, c_from.name
		FROM pipeline_transfers pt
		LEFT JOIN chapters c_from ON c_from.id = pt.from_collegiate_chapter_id
		WHERE pt.to_alumni_chapter_id = ? AND pt.status = 'transferred'
		ORDER BY (pt.transferred_at IS NULL) ASC, pt.transferred_at DESC, pt.member_number`,
		alumniChapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PipelineTransfer
	for rows.Next() {
		var t model.PipelineTransfer
		if err := rows.Scan(&t.ID, &t.MemberNumber, &t.FromCollegiateChapterID,
			&t.ToAlumniChapterID, &t.Status, &t.TransferredAt, &t.FromCollegiateName); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
