package model

// YearlySnapshot is one chapter's membership count for one year. At most
// one snapshot exists per (chapter, year); re-imports overwrite the count
// and notes in place.
type YearlySnapshot struct {
	ID            string `json:"id" db:"id"`
	ChapterID     string `json:"chapter_id" db:"chapter_id"`
	Year          int    `json:"year" db:"year"`
	ActiveMembers int    `json:"active_members" db:"active_members"`
	Notes         string `json:"notes,omitempty" db:"notes"`
}

type YearPoint struct {
	Year          int `json:"year"`
	ActiveMembers int `json:"active_members"`
}

type ActiveLatest struct {
	Latest int  `json:"latest"`
	Year   *int `json:"year"`
	Prev   int  `json:"prev"`
	Delta  int  `json:"delta"`
}
