package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/excel"
	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.Trim(slugCleaner.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if s == "" {
		return "misc"
	}
	return s
}

type documentUpsertRequest struct {
	Title       string  `json:"title"`
	DocType     *string `json:"doc_type"`
	Group       string  `json:"group"`
	PublishDate *string `json:"publish_date"`
	FileURL     string  `json:"file_url"`
	Visibility  string  `json:"visibility"`
	Tags        *string `json:"tags"`
	ChapterID   *string `json:"chapter_id"`
}

func (h *Handler) UpsertDocument(c *gin.Context) {
	var req documentUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Title == "" || req.Group == "" || req.FileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, group, and file_url are required"})
		return
	}
	doc := model.Document{
		ID:          uuid.New().String(),
		ChapterID:   req.ChapterID,
		Title:       req.Title,
		DocType:     req.DocType,
		Group:       req.Group,
		PublishDate: normalizePublishDate(req.PublishDate),
		FileURL:     req.FileURL,
		Visibility:  defaultStr(req.Visibility, "public"),
		Tags:        req.Tags,
	}
	if err := h.repo.InsertDocument(c.Request.Context(), doc); err != nil {
		h.serverError(c, err, "upsert document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": doc.ID})
}

// UploadDocument stores the file in the blob store under a slug-prefixed
// key, then records the document row pointing at its public URL.
func (h *Handler) UploadDocument(c *gin.Context) {
	data, filename, err := readUpload(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	title := c.PostForm("title")
	group := c.PostForm("group")
	if title == "" || group == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and group are required"})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrStorageDisabled.Error()})
		return
	}

	ext := strings.ToLower(filepath.Ext(filename))
	base := slugify(strings.TrimSuffix(filepath.Base(filename), ext))
	key := fmt.Sprintf("resources/%s/%d-%s%s", slugify(group), time.Now().UnixMilli(), base, ext)
	if err := h.store.Upload(c.Request.Context(), key, bytes.NewReader(data)); err != nil {
		h.serverError(c, err, "upload document")
		return
	}

	doc := model.Document{
		ID:          uuid.New().String(),
		ChapterID:   excel.CleanString(c.PostForm("chapter_id")),
		Title:       title,
		DocType:     excel.CleanString(c.PostForm("doc_type")),
		Group:       group,
		PublishDate: normalizePublishDate(excel.CleanString(c.PostForm("publish_date"))),
		FileURL:     h.store.PublicURL(key),
		Visibility:  defaultStr(c.PostForm("visibility"), "public"),
		Tags:        excel.CleanString(c.PostForm("tags")),
	}
	if err := h.repo.InsertDocument(c.Request.Context(), doc); err != nil {
		h.serverError(c, err, "upload document")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": doc.ID, "file_url": doc.FileURL})
}

type profileRequest struct {
	ChapterID         string  `json:"chapter_id"`
	CrestURL          *string `json:"crest_url"`
	PresidentName     *string `json:"president_name"`
	PresidentEmail    *string `json:"president_email"`
	PresidentPhotoURL *string `json:"president_photo_url"`
}

func (h *Handler) SaveChapterProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChapterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter_id required"})
		return
	}
	exists, err := h.repo.ChapterExists(c.Request.Context(), req.ChapterID)
	if err != nil {
		h.serverError(c, err, "save chapter profile")
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown chapter_id"})
		return
	}
	p := model.ChapterProfile{
		ChapterID:         req.ChapterID,
		CrestURL:          req.CrestURL,
		PresidentName:     req.PresidentName,
		PresidentEmail:    req.PresidentEmail,
		PresidentPhotoURL: req.PresidentPhotoURL,
	}
	if err := h.repo.UpsertChapterProfile(c.Request.Context(), p); err != nil {
		h.serverError(c, err, "save chapter profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type advisorRequest struct {
	ID                string  `json:"id"`
	ChapterID         string  `json:"chapter_id"`
	AdvisingChapterID *string `json:"advising_chapter_id"`
	Name              string  `json:"name"`
	Email             *string `json:"email"`
	Phone             *string `json:"phone"`
	Role              *string `json:"role"`
	PhotoURL          *string `json:"photo_url"`
	OrderIndex        *int    `json:"order_index"`
}

func (h *Handler) UpsertAdvisor(c *gin.Context) {
	var req advisorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ChapterID == "" || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter_id and name are required"})
		return
	}
	exists, err := h.repo.ChapterExists(c.Request.Context(), req.ChapterID)
	if err != nil {
		h.serverError(c, err, "upsert advisor")
		return
	}
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown chapter_id"})
		return
	}
	if req.AdvisingChapterID != nil && *req.AdvisingChapterID != "" {
		ok, err := h.repo.ChapterExists(c.Request.Context(), *req.AdvisingChapterID)
		if err != nil {
			h.serverError(c, err, "upsert advisor")
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown advising_chapter_id"})
			return
		}
	}

	a := model.Advisor{
		ID:                req.ID,
		ChapterID:         req.ChapterID,
		AdvisingChapterID: req.AdvisingChapterID,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Role:              req.Role,
		PhotoURL:          req.PhotoURL,
	}
	if req.OrderIndex != nil {
		a.OrderIndex = *req.OrderIndex
	}
	if err := h.repo.UpsertAdvisor(c.Request.Context(), &a); err != nil {
		if errors.Is(err, errors.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Advisor not found"})
			return
		}
		h.serverError(c, err, "upsert advisor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": a.ID})
}

func (h *Handler) DeleteAdvisor(c *gin.Context) {
	err := h.repo.DeleteAdvisor(c.Request.Context(), c.Param("id"))
	if errors.Is(err, errors.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advisor not found"})
		return
	}
	if err != nil {
		h.serverError(c, err, "delete advisor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) ReorderAdvisors(c *gin.Context) {
	var req struct {
		Items []model.AdvisorOrder `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.repo.ReorderAdvisors(c.Request.Context(), req.Items); err != nil {
		h.serverError(c, err, "reorder advisors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "count": len(req.Items)})
}

func (h *Handler) UpdateMemberStatus(c *gin.Context) {
	var req struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and status required"})
		return
	}
	if !model.ValidMemberStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	err := h.repo.UpdateMemberStatus(c.Request.Context(), req.ID, req.Status)
	if errors.Is(err, errors.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		h.serverError(c, err, "update member status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UpdateRosterStatus is the variant the roster dropdown uses: the member
// reference may be the internal id or the member number, scoped to a
// chapter.
func (h *Handler) UpdateRosterStatus(c *gin.Context) {
	var req struct {
		ChapterID string `json:"chapter_id"`
		MemberID  string `json:"member_id"`
		Status    string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ChapterID == "" || req.MemberID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter_id, member_id, status required"})
		return
	}
	if !model.ValidMemberStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	err := h.repo.UpdateMemberStatusInChapter(c.Request.Context(), req.ChapterID, req.MemberID, req.Status)
	if errors.Is(err, errors.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found for chapter"})
		return
	}
	if err != nil {
		h.serverError(c, err, "update roster status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type pipelineRequest struct {
	MemberNumber            string  `json:"member_number"`
	FromCollegiateChapterID string  `json:"from_collegiate_chapter_id"`
	Status                  string  `json:"status"`
	ToAlumniChapterID       *string `json:"to_alumni_chapter_id"`
}

// PipelineTransfer moves a graduating member between the collegiate and
// transferred states. Moving back to collegiate clears the alumni
// chapter assignment.
func (h *Handler) PipelineTransfer(c *gin.Context) {
	var req pipelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.MemberNumber == "" || req.FromCollegiateChapterID == "" || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}
	status := strings.ToLower(req.Status)
	if status != "collegiate" && status != "transferred" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	if status == "transferred" && (req.ToAlumniChapterID == nil || *req.ToAlumniChapterID == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing to_alumni_chapter_id"})
		return
	}

	t := model.PipelineTransfer{
		MemberNumber:            req.MemberNumber,
		FromCollegiateChapterID: req.FromCollegiateChapterID,
		ToAlumniChapterID:       req.ToAlumniChapterID,
		Status:                  status,
	}
	if err := h.repo.UpsertPipelineTransfer(c.Request.Context(), t); err != nil {
		h.serverError(c, err, "pipeline transfer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func normalizePublishDate(raw *string) *string {
	if raw == nil {
		return nil
	}
	return excel.NormalizeDate(*raw)
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
