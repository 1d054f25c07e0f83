package model

type TypeTotals struct {
	Year       *int `json:"year"`
	Total      int  `json:"total"`
	Alumni     int  `json:"alumni"`
	Collegiate int  `json:"collegiate"`
}

type MembershipRank struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Members int    `json:"members"`
}

type GrowthTotal struct {
	Year      *int    `json:"year"`
	PrevYear  *int    `json:"prev_year"`
	TotalNow  int     `json:"total_now"`
	TotalPrev int     `json:"total_prev"`
	Delta     int     `json:"delta"`
	Pct       float64 `json:"pct"`
}

type GrowthRank struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	MembersNow  int     `json:"members_now"`
	MembersPrev int     `json:"members_prev"`
	Delta       int     `json:"delta"`
	Pct         float64 `json:"pct"`
}

type TopGrowth struct {
	Year     *int         `json:"year"`
	PrevYear *int         `json:"prev_year"`
	Rows     []GrowthRank `json:"rows"`
}

type AdvisedChapter struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	University *string `json:"university,omitempty"`
	City       *string `json:"city,omitempty"`
	CrestURL   *string `json:"crest_url,omitempty"`
}

type AdvisorOrder struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}
