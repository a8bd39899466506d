package projects

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

const maxUploadSize = 25 << 20 // 25MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listProjects)
	rg.GET("/projects/:project/files", h.listFiles)
	rg.GET("/projects/:project/files/meta", h.filesMeta)
	rg.DELETE("/projects/:project/files", h.deleteFile)
	rg.POST("/projects/:project/upload", h.upload)
	rg.POST("/projects/daily-reports/:project/upload", h.uploadDailyReport)
	rg.GET("/projects/daily-reports/:project/files", h.listDailyReports)
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.Svc.ListProjects(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil)
		return
	}
	respond.OK(c, projects)
}

func (h *Handler) listFiles(c *gin.Context) {
	files, err := h.Svc.ListFiles(c.Request.Context(), c.Param("project"))
	if err != nil {
		h.fail(c, err, "failed to list project files")
		return
	}
	respond.OK(c, files)
}

func (h *Handler) filesMeta(c *gin.Context) {
	metas, err := h.Svc.FilesMeta(c.Request.Context(), c.Param("project"))
	if err != nil {
		h.fail(c, err, "failed to list project files")
		return
	}
	respond.OK(c, metas)
}

func (h *Handler) listDailyReports(c *gin.Context) {
	files, err := h.Svc.ListDailyReports(c.Request.Context(), c.Param("project"))
	if err != nil {
		h.fail(c, err, "failed to list daily reports")
		return
	}
	respond.OK(c, files)
}

func (h *Handler) deleteFile(c *gin.Context) {
	fileName := c.Query("fileName")
	if fileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "projectName and fileName required", nil)
		return
	}
	c.Set(middleware.FilesKey, fileName)

	cleared, err := h.Svc.DeleteFile(c.Request.Context(), c.Param("project"), fileName)
	if err != nil {
		h.fail(c, err, "failed to delete file")
		return
	}
	respond.OK(c, gin.H{
		"message":      fileName + " deleted successfully",
		"finalCleared": cleared,
	})
}

func (h *Handler) upload(c *gin.Context) {
	h.receive(c, h.Svc.Upload)
}

func (h *Handler) uploadDailyReport(c *gin.Context) {
	h.receive(c, h.Svc.UploadDailyReport)
}

type storeFunc func(ctx context.Context, project, fileName, contentType string, r io.Reader) (Upload, error)

func (h *Handler) receive(c *gin.Context, store storeFunc) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "projectName and file are required", nil)
		return
	}
	c.Set(middleware.FilesKey, fileHeader.Filename)

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	up, err := store(c.Request.Context(), c.Param("project"), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		h.fail(c, err, "failed to upload file")
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"project": up.Project,
		"file":    up.File,
		"path":    up.Path,
	})
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}
