package model

type ChapterType string

const (
	ChapterCollegiate ChapterType = "Collegiate"
	ChapterAlumni     ChapterType = "Alumni"
)

// Chapter is an organizational unit. The id is generated once when the
// chapter is first referenced by name and never changes afterwards; imports
// only ever update the descriptive fields.
type Chapter struct {
	ID           string   `json:"id" db:"id"`
	Code         *string  `json:"code,omitempty" db:"code"`
	Name         string   `json:"name" db:"name"`
	Type         string   `json:"type" db:"type"`
	City         *string  `json:"city,omitempty" db:"city"`
	University   *string  `json:"university,omitempty" db:"university"`
	CharterDate  *string  `json:"charter_date,omitempty" db:"charter_date"`
	Status       string   `json:"status" db:"status"`
	InstagramURL *string  `json:"instagram_url,omitempty" db:"instagram_url"`
	FacebookURL  *string  `json:"facebook_url,omitempty" db:"facebook_url"`
	Latitude     *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" db:"longitude"`
}

type ChapterProfile struct {
	ChapterID         string  `json:"chapter_id" db:"chapter_id"`
	CrestURL          *string `json:"crest_url,omitempty" db:"crest_url"`
	PresidentName     *string `json:"president_name,omitempty" db:"president_name"`
	PresidentEmail    *string `json:"president_email,omitempty" db:"president_email"`
	PresidentPhotoURL *string `json:"president_photo_url,omitempty" db:"president_photo_url"`
}

type Advisor struct {
	ID                  string  `json:"id" db:"id"`
	ChapterID           string  `json:"chapter_id" db:"chapter_id"`
	AdvisingChapterID   *string `json:"advising_chapter_id,omitempty" db:"advising_chapter_id"`
	AdvisingChapterName *string `json:"advising_chapter_name,omitempty" db:"-"`
	Name                string  `json:"name" db:"name"`
	Email               *string `json:"email,omitempty" db:"email"`
	Phone               *string `json:"phone,omitempty" db:"phone"`
	Role                *string `json:"role,omitempty" db:"role"`
	PhotoURL            *string `json:"photo_url,omitempty" db:"photo_url"`
	OrderIndex          int     `json:"order_index" db:"order_index"`
	CreatedAt           string  `json:"created_at" db:"created_at"`
	UpdatedAt           string  `json:"updated_at" db:"updated_at"`
}
