package model

// AlumniMember is one row of the alumni census. Unlike roster members the
// member number is globally unique, not scoped to a chapter; census
// re-imports upsert on it and never delete rows that stop appearing.
type AlumniMember struct {
	ID                          int64   `json:"id" db:"id"`
	MemberNumber                *string `json:"member_number" db:"member_number"`
	FullName                    *string `json:"full_name" db:"full_name"`
	FirstName                   *string `json:"first_name,omitempty" db:"first_name"`
	LastName                    *string `json:"last_name,omitempty" db:"last_name"`
	Email                       *string `json:"email,omitempty" db:"email"`
	AffiliatedChapter           *string `json:"affiliated_chapter,omitempty" db:"affiliated_chapter"`
	AffiliatedChapterNumber     *string `json:"affiliated_chapter_number,omitempty" db:"affiliated_chapter_number"`
	AffiliatedChapterRegion     *string `json:"affiliated_chapter_region,omitempty" db:"affiliated_chapter_region"`
	AffiliatedChapterUniversity *string `json:"affiliated_chapter_university,omitempty" db:"affiliated_chapter_university"`
	InitiatedChapter            *string `json:"initiated_chapter,omitempty" db:"initiated_chapter"`
	InitiatedChapterRegion      *string `json:"initiated_chapter_region,omitempty" db:"initiated_chapter_region"`
	InitiatedChapterUniversity  *string `json:"initiated_chapter_university,omitempty" db:"initiated_chapter_university"`
	InitiatedYear               *int    `json:"initiated_year,omitempty" db:"initiated_year"`
	InitiatedDate               *string `json:"initiated_date,omitempty" db:"initiated_date"`
	MemberType                  *string `json:"member_type,omitempty" db:"member_type"`
	LifeMemberType              *string `json:"life_member_type,omitempty" db:"life_member_type"`
	CurrentlyFinancial          *string `json:"currently_financial,omitempty" db:"currently_financial"`
	ConsecutiveDues             *string `json:"consecutive_dues,omitempty" db:"consecutive_dues"`
	FinancialThrough            *int    `json:"financial_through,omitempty" db:"financial_through"`
	CareerFieldCode             *string `json:"career_field_code,omitempty" db:"career_field_code"`
	CareerField                 *string `json:"career_field,omitempty" db:"career_field"`
	MilitaryAffiliation         *string `json:"military_affiliation,omitempty" db:"military_affiliation"`
	ActiveDuty                  *string `json:"active_duty,omitempty" db:"active_duty"`
	LastRankAchieved            *string `json:"last_rank_achieved,omitempty" db:"last_rank_achieved"`
	FormerSBC                   *string `json:"former_sbc,omitempty" db:"former_sbc"`
	DSCMember                   *string `json:"dsc_member,omitempty" db:"dsc_member"`
	DSCNumber                   *string `json:"dsc_number,omitempty" db:"dsc_number"`
	ALLockeScholar              *string `json:"al_locke_scholar,omitempty" db:"al_locke_scholar"`
	ALLockeScholarNumber        *string `json:"al_locke_scholar_number,omitempty" db:"al_locke_scholar_number"`
	JTFloydHOFMember            *string `json:"jt_floyd_hof_member,omitempty" db:"jt_floyd_hof_member"`
}

type HonorCounts struct {
	DSC          int `json:"dsc"`
	JTF          int `json:"jtf"`
	LifeGold     int `json:"life_gold"`
	LifeSapphire int `json:"life_sapphire"`
	LifePlatinum int `json:"life_platinum"`
	LifeTotal    int `json:"life_total"`
}

type NetworkFilter struct {
	Query               string
	Chapter             string
	Industry            string
	Military            string
	ActiveDuty          string
	FinancialThroughGTE *int
}

type NetworkOptions struct {
	CareerFields       []string `json:"career_fields"`
	AffiliatedChapters []string `json:"affiliated_chapters"`
}

type ChapterCount struct {
	Chapter string `json:"chapter"`
	Count   int    `json:"count"`
}
