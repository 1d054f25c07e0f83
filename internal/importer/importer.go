// Package importer holds the spreadsheet/CSV ingestion pipelines: one per
// data domain, each reconciling a loosely-structured upload against the
// relational schema. All pipelines share the same skeleton — locate
// columns, walk rows, resolve chapter names, normalize cells, upsert —
// and a dry-run mode that runs everything except the final writes, so its
// summary is a faithful preview of a live run.
package importer

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/erbeard/nc-sigmas-portal/internal/config"
	"github.com/erbeard/nc-sigmas-portal/internal/db"
	"github.com/erbeard/nc-sigmas-portal/internal/logger"
)

// Upload audit kinds, one per pipeline. "yearly" and "history" share the
// dashboard's last-upload display.
const (
	KindChapters = "chapters"
	KindYearly   = "yearly"
	KindHistory  = "history"
	KindPIA      = "pia"
	KindRoster   = "roster"
	KindAlumni   = "alumni_csv"
)

type Importer struct {
	repo db.Repository
	cfg  *config.Config
	log  zerolog.Logger
}

func New(repo db.Repository, cfg *config.Config) *Importer {
	return &Importer{
		repo: repo,
		cfg:  cfg,
		log:  logger.Get(),
	}
}

// Summary is the auditable result of one import call, shaped for direct
// display in the admin UI. Zero-valued optional fields are omitted.
type Summary struct {
	OK              bool     `json:"ok"`
	Imported        int      `json:"imported"`
	Skipped         int      `json:"skipped"`
	UnknownChapters []string `json:"unknown_chapters"`
	Shape           string   `json:"shape,omitempty"`
	Year            int      `json:"year,omitempty"`
	Inserted        int      `json:"inserted,omitempty"`
	Updated         int      `json:"updated,omitempty"`
	Errors          int      `json:"errors,omitempty"`
	Total           int      `json:"total,omitempty"`
	DryRun          bool     `json:"dry_run"`
}

func newSummary(dryRun bool) *Summary {
	return &Summary{OK: true, UnknownChapters: []string{}, DryRun: dryRun}
}

// setUnknown stores the unmatched names sorted, so two runs over the same
// file produce byte-identical summaries.
func (s *Summary) setUnknown(names map[string]struct{}) {
	for name := range names {
		s.UnknownChapters = append(s.UnknownChapters, name)
	}
	sort.Strings(s.UnknownChapters)
}
