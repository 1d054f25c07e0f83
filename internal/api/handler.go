package api

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/erbeard/nc-sigmas-portal/internal/config"
	"github.com/erbeard/nc-sigmas-portal/internal/db"
	"github.com/erbeard/nc-sigmas-portal/internal/importer"
	"github.com/erbeard/nc-sigmas-portal/internal/logger"
	"github.com/erbeard/nc-sigmas-portal/internal/storage"
	"github.com/erbeard/nc-sigmas-portal/pkg/errors"
)

// Field names the admin UI has used for the PIA upload over time; the
// handler accepts any of them, falling back to the first file present.
var piaFieldCandidates = []string{"piaFile", "pia_file", "file", "upload", "pia"}

type Handler struct {
	repo  db.Repository
	imp   *importer.Importer
	store storage.Storage
	cfg   *config.Config
	log   zerolog.Logger
}

func NewHandler(repo db.Repository, imp *importer.Importer, store storage.Storage, cfg *config.Config) *Handler {
	return &Handler{
		repo:  repo,
		imp:   imp,
		store: store,
		cfg:   cfg,
		log:   logger.Get(),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

// readUpload pulls the named multipart file into memory. Import files are
// parsed and discarded, never written to disk.
func readUpload(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.ErrNoFile
	}
	return readFileHeader(fh)
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

// readAnyUpload accepts the upload regardless of field name, preferring
// the candidate names in order.
func readAnyUpload(c *gin.Context, candidates []string) ([]byte, string, error) {
	for _, name := range candidates {
		if fh, err := c.FormFile(name); err == nil {
			return readFileHeader(fh)
		}
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", errors.ErrNoFile
	}
	for _, headers := range form.File {
		if len(headers) > 0 {
			return readFileHeader(headers[0])
		}
	}
	return nil, "", errors.ErrNoFile
}

func dryRunRequested(c *gin.Context) bool {
	switch strings.ToLower(strings.TrimSpace(c.PostForm("dry_run"))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func (h *Handler) respondImportError(c *gin.Context, err error) {
	if errors.IsBadUpload(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("import failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
}

func (h *Handler) ImportChapters(c *gin.Context) {
	data, _, err := readUpload(c, "chaptersFile")
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	summary, err := h.imp.ImportChapters(c.Request.Context(), data, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ImportEOY(c *gin.Context) {
	data, filename, err := readUpload(c, "eoyFile")
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	summary, err := h.imp.ImportEOY(c.Request.Context(), data, filename, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ImportHistory(c *gin.Context) {
	data, _, err := readUpload(c, "historyFile")
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	summary, err := h.imp.ImportHistory(c.Request.Context(), data, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ImportPIA(c *gin.Context) {
	data, _, err := readAnyUpload(c, piaFieldCandidates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received. Use field name 'piaFile' (or 'pia_file')."})
		return
	}
	summary, err := h.imp.ImportPIA(c.Request.Context(), data, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ImportRoster(c *gin.Context) {
	data, _, err := readUpload(c, "rosterFile")
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	summary, err := h.imp.ImportRoster(c.Request.Context(), data, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ImportAlumni(c *gin.Context) {
	data, _, err := readUpload(c, "alumniFile")
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	summary, err := h.imp.ImportAlumni(c.Request.Context(), data, dryRunRequested(c))
	if err != nil {
		h.respondImportError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
