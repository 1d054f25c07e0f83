package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/importer"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
)

func (h *Handler) ListChapters(c *gin.Context) {
	chapters, err := h.repo.ListChapters(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "list chapters")
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *Handler) GetChapter(c *gin.Context) {
	ch, err := h.repo.GetChapter(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "get chapter")
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) GetChapterProfile(c *gin.Context) {
	p, err := h.repo.GetChapterProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "get chapter profile")
		return
	}
	if p == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) ListChapterAdvisors(c *gin.Context) {
	rows, err := h.repo.ListAdvisors(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "list advisors")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ChapterYearlyHistory(c *gin.Context) {
	rows, err := h.repo.ChapterYearlyHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "chapter yearly history")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ChapterActiveLatest(c *gin.Context) {
	latest, err := h.repo.LatestActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "chapter active latest")
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (h *Handler) ChapterRoster(c *gin.Context) {
	rows, err := h.repo.Roster(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "chapter roster")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, m := range rows {
		out = append(out, gin.H{
			"id":                             m.ID,
			"first_name":                     strOrEmpty(m.FirstName),
			"last_name":                      strOrEmpty(m.LastName),
			"member_number":                  strOrEmpty(m.MemberNumber),
			"initiated_date":                 m.InitiatedDate,
			"financial_through":              m.FinancialThroughYear,
			"status":                         m.Status,
			"graduation_year":                m.GraduationYear,
			"transitioned_alumni_chapter_id": m.TransitionedAlumniChapterID,
		})
	}
	c.JSON(http.StatusOK, out)
}

// ChapterAlumniRoster lists the census rows affiliated with an alumni
// chapter. Collegiate chapters get an empty list, and deceased members
// are filtered out at the query.
func (h *Handler) ChapterAlumniRoster(c *gin.Context) {
	ch, err := h.repo.GetChapter(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "alumni roster")
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown chapter"})
		return
	}
	if !strings.EqualFold(ch.Type, string(model.ChapterAlumni)) {
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{}})
		return
	}
	rows, err := h.repo.AlumniRoster(c.Request.Context(), ch.Name)
	if err != nil {
		h.serverError(c, err, "alumni roster")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, m := range rows {
		out = append(out, gin.H{
			"name":                 m.FullName,
			"member_number":        m.MemberNumber,
			"email":                m.Email,
			"career_field":         m.CareerField,
			"military_affiliation": m.MilitaryAffiliation,
			"active_duty":          m.ActiveDuty,
			"financial_through":    m.FinancialThrough,
			"initiated_year":       m.InitiatedYear,
			"member_type":          m.MemberType,
			"currently_financial":  excel.ParseBool(strOrEmpty(m.CurrentlyFinancial)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rows": out})
}

func (h *Handler) NetworkSearch(c *gin.Context) {
	f := model.NetworkFilter{
		Query:      c.Query("q"),
		Chapter:    c.Query("chapter"),
		Industry:   c.Query("industry"),
		Military:   c.Query("military"),
		ActiveDuty: c.Query("active_duty"),
	}
	if v := c.Query("financial_through_gte"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.FinancialThroughGTE = &n
		}
	}
	rows, err := h.repo.NetworkSearch(c.Request.Context(), f)
	if err != nil {
		h.serverError(c, err, "network search")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) NetworkOptions(c *gin.Context) {
	opts, err := h.repo.NetworkOptions(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "network options")
		return
	}
	c.JSON(http.StatusOK, opts)
}

// ChapterAlumni accepts either a chapter id or a raw chapter name, since
// older pages link by name.
func (h *Handler) ChapterAlumni(c *gin.Context) {
	name := c.Param("id")
	if ch, err := h.repo.GetChapter(c.Request.Context(), name); err != nil {
		h.serverError(c, err, "chapter alumni")
		return
	} else if ch != nil {
		name = ch.Name
	}
	rows, err := h.repo.AlumniByChapter(c.Request.Context(), name)
	if err != nil {
		h.serverError(c, err, "chapter alumni")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AlumniCountsByChapter(c *gin.Context) {
	rows, err := h.repo.AlumniCountsByChapter(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "alumni counts")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AdvisedCollegiate(c *gin.Context) {
	rows, err := h.repo.AdvisedCollegiate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "advised collegiate")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AlumniHonors(c *gin.Context) {
	_, financialOnly := c.GetQuery("currently_financial")
	counts, err := h.repo.AlumniHonors(c.Request.Context(), financialOnly)
	if err != nil {
		h.serverError(c, err, "alumni honors")
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) ListAlumniMembers(c *gin.Context) {
	_, financialOnly := c.GetQuery("currently_financial")
	rows, err := h.repo.ListAlumniMembers(c.Request.Context(), financialOnly)
	if err != nil {
		h.serverError(c, err, "list alumni members")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) YearlyLastUpload(c *gin.Context) {
	at, err := h.repo.LastUploadAt(c.Request.Context(), []string{importer.KindYearly, importer.KindHistory})
	if err != nil {
		h.serverError(c, err, "yearly last upload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_upload_at": at})
}

func (h *Handler) ActiveByTypeLatest(c *gin.Context) {
	totals, err := h.repo.StatsActiveByTypeLatest(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "active by type")
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) TopMembership(c *gin.Context) {
	year, rows, err := h.repo.TopMembership(c.Request.Context(), strings.ToLower(c.Query("type")))
	if err != nil {
		h.serverError(c, err, "top membership")
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "rows": rows})
}

func (h *Handler) GrowthTotal(c *gin.Context) {
	total, err := h.repo.GrowthTotal(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "growth total")
		return
	}
	c.JSON(http.StatusOK, total)
}

func (h *Handler) TopGrowth(c *gin.Context) {
	top, err := h.repo.TopGrowth(c.Request.Context(), strings.ToLower(c.Query("type")))
	if err != nil {
		h.serverError(c, err, "top growth")
		return
	}
	c.JSON(http.StatusOK, top)
}

func (h *Handler) PIAFinancialTotals(c *gin.Context) {
	totals, err := h.repo.PIAFinancialTotals(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "pia financial totals")
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *Handler) PIATop(c *gin.Context) {
	program := strings.ToLower(c.DefaultQuery("program", "total"))
	chapterType := strings.ToLower(c.Query("type"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 {
		limit = 1
	}
	if limit > 20 {
		limit = 20
	}
	rows, err := h.repo.PIATop(c.Request.Context(), program, chapterType, limit)
	if err != nil {
		h.serverError(c, err, "pia top")
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program, "type": chapterType, "rows": rows})
}

func (h *Handler) PIAChapterSummary(c *gin.Context) {
	sum, err := h.repo.PIASummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "pia summary")
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) PIAChapterDetails(c *gin.Context) {
	program := strings.ToLower(strings.TrimSpace(c.Query("program")))
	rows, err := h.repo.PIADetails(c.Request.Context(), c.Param("id"), program)
	if err != nil {
		h.serverError(c, err, "pia details")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, e := range rows {
		out = append(out, gin.H{
			"activity_date":               e.ActivityDate,
			"description":                 strOrEmpty(e.Description),
			"brothers_attending":          e.BrothersAttending,
			"hours":                       e.Hours,
			"black_spend_amount":          e.BlackSpendAmount,
			"scholarship_funds_disbursed": e.ScholarshipFundsDisbursed,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) PIAChapterLast(c *gin.Context) {
	entry, err := h.repo.PIALast(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "pia last")
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":        entry.ActivityDate,
		"hours":       entry.Hours,
		"description": strOrEmpty(entry.Description),
	})
}

func (h *Handler) ListDocuments(c *gin.Context) {
	rows, err := h.repo.ListDocuments(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "list documents")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) AlumniPipeline(c *gin.Context) {
	rows, err := h.repo.AlumniPipeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.serverError(c, err, "alumni pipeline")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (h *Handler) serverError(c *gin.Context, err error, op string) {
	h.log.Error().Err(err).Str("op", op).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
