package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/erbeard/nc-sigmas-portal/internal/model"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

const easternTZ = "America/New_York"

// easternToUTC converts a local Eastern wall-clock date and time to a UTC
// RFC3339 string. Events store both so the calendar can display local
// times while range queries stay unambiguous.
func easternToUTC(date, clock string) (string, error) {
	loc, err := time.LoadLocation(easternTZ)
	if err != nil {
		return "", err
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, loc)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02T15:04:05", date+"T"+clock, loc)
		if err != nil {
			return "", err
		}
	}
	return t.UTC().Format(time.RFC3339), nil
}

// CalendarEvents lists approved events in the requested window, shaped
// for FullCalendar.
func (h *Handler) CalendarEvents(c *gin.Context) {
	start := c.DefaultQuery("start", "1900-01-01")
	end := c.DefaultQuery("end", "2100-12-31")
	rows, err := h.repo.ApprovedEvents(c.Request.Context(), start, end)
	if err != nil {
		h.serverError(c, err, "calendar events")
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, e := range rows {
		out = append(out, gin.H{
			"id":     e.ID,
			"title":  e.Title,
			"start":  e.StartISO,
			"end":    e.EndISO,
			"allDay": false,
			"extendedProps": gin.H{
				"chapter_id":   e.ChapterID,
				"chapter_name": e.ChapterName,
				"location":     strOrEmpty(e.Location),
				"description":  strOrEmpty(e.Description),
				"flyer_url":    e.FlyerURL,
				"status":       e.Status,
				"tz":           defaultStr(e.TZ, easternTZ),
			},
		})
	}
	c.JSON(http.StatusOK, out)
}

// SubmitEvent accepts a public event submission with an optional flyer
// and stores it pending approval.
func (h *Handler) SubmitEvent(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	date := c.PostForm("date")
	startTime := c.PostForm("start_time")
	if title == "" || date == "" || startTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, date, start_time are required"})
		return
	}

	var chapterID *string
	if cid := c.PostForm("chapter_id"); cid != "" {
		exists, err := h.repo.ChapterExists(c.Request.Context(), cid)
		if err != nil {
			h.serverError(c, err, "submit event")
			return
		}
		if !exists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown chapter_id"})
			return
		}
		chapterID = &cid
	}

	startUTC, err := easternToUTC(date, startTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date or start_time"})
		return
	}
	e := model.Event{
		ID:        uuid.New().String(),
		ChapterID: chapterID,
		Title:     title,
		StartISO:  date + "T" + startTime,
		StartUTC:  &startUTC,
		TZ:        easternTZ,
		Status:    model.EventPending,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if d := c.PostForm("description"); d != "" {
		e.Description = &d
	}
	if l := c.PostForm("location"); l != "" {
		e.Location = &l
	}
	if endTime := c.PostForm("end_time"); endTime != "" {
		endISO := date + "T" + endTime
		e.EndISO = &endISO
		endUTC, err := easternToUTC(date, endTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time"})
			return
		}
		e.EndUTC = &endUTC
	}

	if fh, err := c.FormFile("flyer"); err == nil && h.store != nil {
		data, filename, err := readFileHeader(fh)
		if err != nil {
			h.serverError(c, err, "submit event")
			return
		}
		ext := strings.ToLower(filepath.Ext(filename))
		base := slugify(strings.TrimSuffix(filepath.Base(filename), ext))
		key := fmt.Sprintf("flyers/%d-%s%s", time.Now().UnixMilli(), base, ext)
		if err := h.store.Upload(c.Request.Context(), key, bytes.NewReader(data)); err != nil {
			h.serverError(c, err, "submit event")
			return
		}
		url := h.store.PublicURL(key)
		e.FlyerURL = &url
	}

	if err := h.repo.InsertEvent(c.Request.Context(), e); err != nil {
		h.serverError(c, err, "submit event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "id": e.ID, "status": model.EventPending})
}

func (h *Handler) PendingEvents(c *gin.Context) {
	rows, err := h.repo.PendingEvents(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "pending events")
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) ApproveEvent(c *gin.Context) {
	h.setEventStatus(c, model.EventApproved)
}

func (h *Handler) RejectEvent(c *gin.Context) {
	h.setEventStatus(c, model.EventRejected)
}

func (h *Handler) setEventStatus(c *gin.Context, status model.EventStatus) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	err := h.repo.SetEventStatus(c.Request.Context(), req.ID, status)
	if errors.Is(err, errors.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}
	if err != nil {
		h.serverError(c, err, "set event status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
