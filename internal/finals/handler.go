package finals

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
	"docreview-backend/internal/shared/util"
)

// FileLister lists the file names currently stored for a project.
type FileLister interface {
	ListFiles(ctx context.Context, project string) ([]string, error)
}

// Handler exposes the registry over HTTP.
type Handler struct {
	Registry *Registry
	Files    FileLister
}

// NewHandler constructs a Handler.
func NewHandler(reg *Registry, files FileLister) *Handler {
	return &Handler{Registry: reg, Files: files}
}

// RegisterRoutes attaches finalize routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:project/finalize", h.finalize)
	rg.GET("/projects/:project/final", h.get)
	rg.DELETE("/projects/:project/final", h.clear)
}

type finalizeRequest struct {
	FinalFile string `json:"finalFile"`
}

type finalResponse struct {
	Project   string `json:"project"`
	FinalFile string `json:"finalFile"`
}

func (h *Handler) finalize(c *gin.Context) {
	project, ok := projectParam(c)
	if !ok {
		return
	}

	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.FinalFile = strings.TrimSpace(req.FinalFile)
	if req.FinalFile == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "finalFile is required", nil)
		return
	}
	c.Set(middleware.FilesKey, req.FinalFile)

	names, err := h.Files.ListFiles(c.Request.Context(), project)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list files", nil)
		return
	}
	if !slices.Contains(names, req.FinalFile) {
		respond.Error(c, http.StatusNotFound, "not_found", "File not found in project", nil)
		return
	}

	if err := h.Registry.Assign(c.Request.Context(), project, req.FinalFile); err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to set final file", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"project":   project,
		"finalFile": req.FinalFile,
	})
}

func (h *Handler) get(c *gin.Context) {
	project, ok := projectParam(c)
	if !ok {
		return
	}

	name, found, err := h.Registry.Get(c.Request.Context(), project)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch final file", nil)
		}
		return
	}
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "no final file set", nil)
		return
	}

	respond.OK(c, finalResponse{Project: project, FinalFile: name})
}

func (h *Handler) clear(c *gin.Context) {
	project, ok := projectParam(c)
	if !ok {
		return
	}

	if err := h.Registry.Clear(c.Request.Context(), project); err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear final file", nil)
		}
		return
	}

	respond.OK(c, gin.H{"success": true, "project": project})
}

// projectParam returns the route's project in the form used for object keys,
// so the registry and the file listing agree on it.
func projectParam(c *gin.Context) (string, bool) {
	project, err := util.SanitizeProjectName(c.Param("project"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return "", false
	}
	return project, true
}
