package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, adminKey string) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		// Chapters
		api.GET("/chapters", handler.ListChapters)
		api.GET("/chapters/:id", handler.GetChapter)
		api.GET("/chapters/:id/profile", handler.GetChapterProfile)
		api.GET("/chapters/:id/advisors", handler.ListChapterAdvisors)
		api.GET("/chapters/:id/history-yearly", handler.ChapterYearlyHistory)
		api.GET("/chapters/:id/active-latest", handler.ChapterActiveLatest)
		api.GET("/chapters/:id/roster", handler.ChapterRoster)
		api.GET("/chapters/:id/alumni-roster", handler.ChapterAlumniRoster)
		api.GET("/chapters/:id/alumni", handler.ChapterAlumni)
		api.GET("/chapters/:id/advised-collegiate", handler.AdvisedCollegiate)
		api.GET("/chapters/:id/pipeline", handler.AlumniPipeline)

		// Chapter PIA
		api.GET("/chapters/:id/pia/summary", handler.PIAChapterSummary)
		api.GET("/chapters/:id/pia/details", handler.PIAChapterDetails)
		api.GET("/chapters/:id/pia/last", handler.PIAChapterLast)

		// Alumni network
		api.GET("/network", handler.NetworkSearch)
		api.GET("/network/options", handler.NetworkOptions)
		api.GET("/alumni/counts-by-chapter", handler.AlumniCountsByChapter)
		api.GET("/alumni-members", handler.ListAlumniMembers)

		// Stats
		api.GET("/stats/yearly-last-upload", handler.YearlyLastUpload)
		api.GET("/stats/active-brothers/by-type-latest", handler.ActiveByTypeLatest)
		api.GET("/stats/active-brothers/growth-total", handler.GrowthTotal)
		api.GET("/stats/top-membership", handler.TopMembership)
		api.GET("/stats/top-growth", handler.TopGrowth)
		api.GET("/stats/alumni-members/honors", handler.AlumniHonors)
		api.GET("/stats/pia/financial-totals", handler.PIAFinancialTotals)
		api.GET("/stats/pia/top", handler.PIATop)

		// Documents & calendar
		api.GET("/documents", handler.ListDocuments)
		api.GET("/calendar/events", handler.CalendarEvents)
		api.POST("/calendar/submit", handler.SubmitEvent)

		// Pipeline transfers are admin-keyed despite living outside the
		// admin group, matching the page that calls them.
		api.POST("/pipeline/transfer", AdminKeyRequired(adminKey), handler.PipelineTransfer)
	}

	admin := router.Group("/api/admin")
	admin.Use(AdminKeyRequired(adminKey))
	{
		// Imports
		admin.POST("/chapters/import", handler.ImportChapters)
		admin.POST("/eoy/import", handler.ImportEOY)
		admin.POST("/history/import", handler.ImportHistory)
		admin.POST("/pia/import", handler.ImportPIA)
		admin.POST("/roster/import", handler.ImportRoster)
		admin.POST("/alumni/import", handler.ImportAlumni)

		// Documents
		admin.POST("/documents/upsert", handler.UpsertDocument)
		admin.POST("/documents/upload", handler.UploadDocument)

		// Chapter profile & advisors
		admin.POST("/chapter-profile", handler.SaveChapterProfile)
		admin.POST("/advisors/upsert", handler.UpsertAdvisor)
		admin.DELETE("/advisors/:id", handler.DeleteAdvisor)
		admin.POST("/advisors/reorder", handler.ReorderAdvisors)

		// Roster status
		admin.POST("/roster/member/status", handler.UpdateMemberStatus)
		admin.POST("/roster/status", handler.UpdateRosterStatus)

		// Calendar moderation
		admin.GET("/calendar/pending", handler.PendingEvents)
		admin.POST("/calendar/approve", handler.ApproveEvent)
		admin.POST("/calendar/reject", handler.RejectEvent)
	}
}
