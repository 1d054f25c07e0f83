package model

// MemberStatuses are the values the admin UI may set on a roster member.
var MemberStatuses = []string{"Active", "Not Financial", "Graduated", "Inactive", "Suspended", "Alumni"}

func ValidMemberStatus(s string) bool {
	for _, v := range MemberStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Member is a roster entry, unique per (chapter_id, member_number).
// Re-imports upsert on that key, so the internal id survives as long as the
// key already existed.
type Member struct {
	ID                          string  `json:"id" db:"id"`
	ChapterID                   string  `json:"chapter_id" db:"chapter_id"`
	FirstName                   *string `json:"first_name,omitempty" db:"first_name"`
	LastName                    *string `json:"last_name,omitempty" db:"last_name"`
	MemberNumber                *string `json:"member_number,omitempty" db:"member_number"`
	InitiatedDate               *string `json:"initiated_date,omitempty" db:"initiated_date"`
	FinancialThroughYear        *int    `json:"financial_through_year,omitempty" db:"financial_through_year"`
	Status                      string  `json:"status" db:"status"`
	TransitionedAlumniChapterID *string `json:"transitioned_alumni_chapter_id,omitempty" db:"transitioned_alumni_chapter_id"`
	GraduationYear              *string `json:"graduation_year,omitempty" db:"graduation_year"`
}

type PipelineTransfer struct {
	ID                      int64   `json:"id" db:"id"`
	MemberNumber            string  `json:"member_number" db:"member_number"`
	FromCollegiateChapterID string  `json:"from_collegiate_chapter_id" db:"from_collegiate_chapter_id"`
	ToAlumniChapterID       *string `json:"to_alumni_chapter_id,omitempty" db:"to_alumni_chapter_id"`
	Status                  string  `json:"status" db:"status"`
	TransferredAt           *string `json:"transferred_at,omitempty" db:"transferred_at"`
	FromCollegiateName      *string `json:"from_collegiate_name,omitempty" db:"-"`
}
