package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (or creates) the portal database and brings the schema up to
// date. Migrations are additive and idempotent only — existing tables and
// columns are never rewritten or dropped.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists per connection; keep the pool at one so
	// every query sees the same schema. Tests rely on this.
	if strings.Contains(path, ":memory:") {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS chapters (
  id TEXT PRIMARY KEY,
  code TEXT,
  name TEXT UNIQUE,
  type TEXT,
  city TEXT,
  university TEXT,
  charter_date TEXT,
  status TEXT,
  instagram_url TEXT,
  facebook_url TEXT,
  latitude REAL,
  longitude REAL
);

CREATE TABLE IF NOT EXISTS yearly_history (
  id TEXT PRIMARY KEY,
  chapter_id TEXT NOT NULL,
  year INTEGER NOT NULL,
  active_members INTEGER DEFAULT 0,
  notes TEXT,
  UNIQUE(chapter_id, year),
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS documents (
  id TEXT PRIMARY KEY,
  chapter_id TEXT,
  title TEXT,
  doc_type TEXT,
  "group" TEXT,
  publish_date TEXT,
  file_url TEXT,
  visibility TEXT,
  tags TEXT,
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chapter_profiles (
  chapter_id TEXT PRIMARY KEY,
  crest_url TEXT,
  president_name TEXT,
  president_email TEXT,
  president_photo_url TEXT,
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS chapter_advisors (
  id TEXT PRIMARY KEY,
  chapter_id TEXT NOT NULL,
  advising_chapter_id TEXT,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  role TEXT,
  photo_url TEXT,
  order_index INTEGER DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE,
  FOREIGN KEY(advising_chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS uploads (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  occurred_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS pia_entries (
  id TEXT PRIMARY KEY,
  chapter_id TEXT NOT NULL,
  activity_date TEXT,
  report_year INTEGER,
  hours REAL DEFAULT 0,
  is_bbb INTEGER DEFAULT 0,
  is_education INTEGER DEFAULT 0,
  is_social INTEGER DEFAULT 0,
  is_sbc INTEGER DEFAULT 0,
  description TEXT,
  brothers_attending INTEGER,
  created_at TEXT,
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  chapter_id TEXT,
  title TEXT NOT NULL,
  description TEXT,
  location TEXT,
  start_iso TEXT NOT NULL,
  end_iso TEXT,
  flyer_url TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL,
  approved_at TEXT,
  start_utc TEXT,
  end_utc TEXT,
  tz TEXT DEFAULT 'America/New_York',
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS members (
  id TEXT PRIMARY KEY,
  chapter_id TEXT NOT NULL,
  first_name TEXT,
  last_name TEXT,
  member_number TEXT,
  initiated_date TEXT,
  financial_through_year INTEGER,
  status TEXT DEFAULT 'Active',
  transitioned_alumni_chapter_id TEXT,
  graduation_year TEXT,
  UNIQUE(chapter_id, member_number),
  FOREIGN KEY(chapter_id) REFERENCES chapters(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS pipeline_transfers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  member_number TEXT NOT NULL UNIQUE,
  from_collegiate_chapter_id TEXT NOT NULL,
  to_alumni_chapter_id TEXT,
  status TEXT NOT NULL CHECK (status IN ('collegiate','transferred')),
  transferred_at TEXT,
  created_at TEXT NOT NULL DEFAULT (datetime('now')),
  updated_at TEXT NOT NULL DEFAULT (datetime('now')),
  FOREIGN KEY (from_collegiate_chapter_id) REFERENCES chapters(id) ON DELETE SET NULL,
  FOREIGN KEY (to_alumni_chapter_id) REFERENCES chapters(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS alumni_members (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  member_number TEXT UNIQUE,
  full_name TEXT,
  first_name TEXT,
  last_name TEXT,
  email TEXT,
  affiliated_chapter TEXT,
  affiliated_chapter_number TEXT,
  affiliated_chapter_region TEXT,
  affiliated_chapter_university TEXT,
  initiated_chapter TEXT,
  initiated_chapter_region TEXT,
  initiated_chapter_university TEXT,
  initiated_year INTEGER,
  initiated_date TEXT,
  member_type TEXT,
  life_member_type TEXT,
  currently_financial TEXT,
  consecutive_dues TEXT,
  financial_through INTEGER,
  career_field_code TEXT,
  career_field TEXT,
  military_affiliation TEXT,
  active_duty TEXT,
  last_rank_achieved TEXT,
  former_sbc TEXT,
  dsc_member TEXT,
  dsc_number TEXT,
  al_locke_scholar TEXT,
  al_locke_scholar_number TEXT,
  jt_floyd_hof_member TEXT,
  created_at TEXT DEFAULT (datetime('now')),
  updated_at TEXT DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_members_chapter ON members(chapter_id);
CREATE INDEX IF NOT EXISTS idx_members_last_first ON members(last_name, first_name);
CREATE INDEX IF NOT EXISTS idx_members_status ON members(status);
CREATE INDEX IF NOT EXISTS idx_advisors_chapter ON chapter_advisors(chapter_id, order_index, name);
CREATE INDEX IF NOT EXISTS idx_advisors_advising ON chapter_advisors(advising_chapter_id, chapter_id);
CREATE INDEX IF NOT EXISTS idx_events_status_start ON events(status, start_iso);
CREATE INDEX IF NOT EXISTS idx_documents_group_pub ON documents("group", publish_date);
CREATE INDEX IF NOT EXISTS idx_pipeline_status_alumni ON pipeline_transfers(status, to_alumni_chapter_id);
CREATE INDEX IF NOT EXISTS idx_pipeline_from_collegiate ON pipeline_transfers(from_collegiate_chapter_id);
CREATE INDEX IF NOT EXISTS idx_alumni_member_number ON alumni_members(member_number);
CREATE INDEX IF NOT EXISTS idx_alumni_affiliated_chapter ON alumni_members(affiliated_chapter);
CREATE INDEX IF NOT EXISTS idx_alumni_career_field ON alumni_members(career_field);
CREATE INDEX IF NOT EXISTS idx_alumni_military ON alumni_members(military_affiliation);
CREATE INDEX IF NOT EXISTS idx_alumni_active_duty ON alumni_members(active_duty);
`

func migrate(conn *sql.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Additive column migrations for databases created before these fields
	// existed. Safe to re-run.
	migrations := []struct {
		table, column, typeSQL string
	}{
		{"pia_entries", "black_spend_amount", "REAL"},
		{"pia_entries", "scholarship_funds_disbursed", "REAL"},
		{"chapters", "instagram_url", "TEXT"},
		{"chapters", "facebook_url", "TEXT"},
		{"chapter_advisors", "advising_chapter_id", "TEXT"},
		{"members", "graduation_year", "TEXT"},
		{"members", "transitioned_alumni_chapter_id", "TEXT"},
	}
	for _, m := range migrations {
		if err := ensureColumn(conn, m.table, m.column, m.typeSQL); err != nil {
			return err
		}
	}
	return nil
}

func ensureColumn(conn *sql.DB, table, column, typeSQL string) error {
	rows, err := conn.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return err
	}
	defer rows.Close()

	exists := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return err
		}
		if strings.EqualFold(name, column) {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = conn.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, typeSQL))
	return err
}
