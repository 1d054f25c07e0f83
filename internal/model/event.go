package model

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventRejected EventStatus = "rejected"
)

// Event carries both the local wall-clock strings shown to users and UTC
// mirrors for range queries. Times are Eastern unless the row says
// otherwise.
type Event struct {
	ID          string      `json:"id" db:"id"`
	ChapterID   *string     `json:"chapter_id,omitempty" db:"chapter_id"`
	ChapterName *string     `json:"chapter_name,omitempty" db:"-"`
	Title       string      `json:"title" db:"title"`
	Description *string     `json:"description,omitempty" db:"description"`
	Location    *string     `json:"location,omitempty" db:"location"`
	StartISO    string      `json:"start_iso" db:"start_iso"`
	EndISO      *string     `json:"end_iso,omitempty" db:"end_iso"`
	StartUTC    *string     `json:"start_utc,omitempty" db:"start_utc"`
	EndUTC      *string     `json:"end_utc,omitempty" db:"end_utc"`
	TZ          string      `json:"tz" db:"tz"`
	FlyerURL    *string     `json:"flyer_url,omitempty" db:"flyer_url"`
	Status      EventStatus `json:"status" db:"status"`
	CreatedAt   string      `json:"created_at" db:"created_at"`
	ApprovedAt  *string     `json:"approved_at,omitempty" db:"approved_at"`
}

type Document struct {
	ID          string  `json:"id" db:"id"`
	ChapterID   *string `json:"chapter_id,omitempty" db:"chapter_id"`
	Title       string  `json:"title" db:"title"`
	DocType     *string `json:"doc_type,omitempty" db:"doc_type"`
	Group       string  `json:"group" db:"group"`
	PublishDate *string `json:"publish_date,omitempty" db:"publish_date"`
	FileURL     string  `json:"file_url" db:"file_url"`
	Visibility  string  `json:"visibility" db:"visibility"`
	Tags        *string `json:"tags,omitempty" db:"tags"`
}
