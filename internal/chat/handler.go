package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/llm"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

// Routes served by this handler; both call the LLM.
const (
	RouteDocumentChat    = "/document-chat"
	RouteDocumentSummary = "/document-summary"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(RouteDocumentChat, h.ask)
	rg.POST(RouteDocumentSummary, h.summarize)
}

// AskRequest is the document-chat payload.
type AskRequest struct {
	ProjectName string        `json:"projectName"`
	FileName    string        `json:"fileName"`
	Question    string        `json:"question"`
	History     []llm.Message `json:"history,omitempty"`
}

// SummaryRequest is the document-summary payload.
type SummaryRequest struct {
	ProjectName string `json:"projectName"`
	FileName    string `json:"fileName"`
}

func (h *Handler) ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.ProjectKey, req.ProjectName)
	c.Set(middleware.FilesKey, req.FileName)

	answer, err := h.Svc.Ask(c.Request.Context(), req.ProjectName, req.FileName, req.Question, req.History)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"answer": answer})
}

func (h *Handler) summarize(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.ProjectKey, req.ProjectName)
	c.Set(middleware.FilesKey, req.FileName)

	summary, err := h.Svc.Summarize(c.Request.Context(), req.ProjectName, req.FileName)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"summary": summary})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "), nil)
	case errors.Is(err, ErrDocumentNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "llm_rate_limited", "The language model is busy, please retry shortly", nil)
	case errors.Is(err, llm.ErrQuotaExhausted):
		respond.Error(c, http.StatusPaymentRequired, "llm_quota_exhausted", "The language model quota is exhausted", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", err.Error(), nil)
	}
}
