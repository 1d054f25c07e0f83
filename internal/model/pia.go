package model

// PIAEntry is one program/impact-activity log row. The PIA import is
// replace-all: every successful run wipes the table and inserts the new
// set, because the spreadsheet is the single current truth for this data.
type PIAEntry struct {
	ID                        string   `json:"id" db:"id"`
	ChapterID                 string   `json:"chapter_id" db:"chapter_id"`
	ActivityDate              *string  `json:"activity_date,omitempty" db:"activity_date"`
	ReportYear                *int     `json:"report_year,omitempty" db:"report_year"`
	Hours                     float64  `json:"hours" db:"hours"`
	IsBBB                     bool     `json:"is_bbb" db:"is_bbb"`
	IsEducation               bool     `json:"is_education" db:"is_education"`
	IsSocial                  bool     `json:"is_social" db:"is_social"`
	IsSBC                     bool     `json:"is_sbc" db:"is_sbc"`
	Description               *string  `json:"description,omitempty" db:"description"`
	BrothersAttending         *int     `json:"brothers_attending,omitempty" db:"brothers_attending"`
	BlackSpendAmount          *float64 `json:"black_spend_amount,omitempty" db:"black_spend_amount"`
	ScholarshipFundsDisbursed *float64 `json:"scholarship_funds_disbursed,omitempty" db:"scholarship_funds_disbursed"`
	CreatedAt                 string   `json:"created_at" db:"created_at"`
}

type PIASummary struct {
	TotalHours       float64 `json:"total_hours"`
	BBBHours         float64 `json:"bbb_hours"`
	SocialHours      float64 `json:"social_hours"`
	EducationHours   float64 `json:"education_hours"`
	SBCHours         float64 `json:"sbc_hours"`
	BlackSpendTotal  float64 `json:"black_spend_total"`
	ScholarshipTotal float64 `json:"scholarship_total"`
	AsOf             *string `json:"as_of"`
}

type PIAFinancialTotals struct {
	BlackSpendTotal  float64 `json:"black_spend_total"`
	ScholarshipTotal float64 `json:"scholarship_total"`
	AsOf             *string `json:"as_of"`
}

type PIARanking struct {
	ChapterID string  `json:"id"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Value     float64 `json:"value"`
}
