package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/llm"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// Routes served by this handler; both call the LLM.
const (
	RouteAnomalyDetect   = "/daily-reports/anomaly-detect"
	RouteContractCompare = "/contracts/compare"
)

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST(RouteAnomalyDetect, h.detect)
	rg.POST(RouteContractCompare, h.compare)
}

func (h *Handler) detect(c *gin.Context) {
	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.ProjectKey, req.ProjectName)
	c.Set(middleware.FilesKey, req.Files)

	raw, err := h.Svc.DetectAnomalies(c.Request.Context(), req)
	if err != nil {
		c.Set(middleware.OutcomeKey, "failed")
		WriteError(c, err, "Anomaly detection failed")
		return
	}
	c.Set(middleware.OutcomeKey, "completed")
	respond.OK(c, DetectResponse{Anomalies: raw})
}

func (h *Handler) compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set(middleware.ProjectKey, req.ProjectName)
	c.Set(middleware.FilesKey, req.Files)

	out, err := h.Svc.CompareContracts(c.Request.Context(), req)
	if err != nil {
		WriteError(c, err, "Comparison failed")
		return
	}
	respond.OK(c, CompareResponse{Comparison: out})
}

// WriteError maps report and LLM errors to HTTP responses.
func WriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", trimSentinel(err, ErrInvalidInput), nil)
	case errors.Is(err, ErrDocumentNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusTooManyRequests, "llm_rate_limited", "The language model is busy, please retry shortly", nil)
	case errors.Is(err, llm.ErrQuotaExhausted):
		respond.Error(c, http.StatusPaymentRequired, "llm_quota_exhausted", "The language model quota is exhausted", nil)
	case errors.Is(err, llm.ErrNotImplemented):
		respond.Error(c, http.StatusInternalServerError, "llm_unavailable", "No language model is configured", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback+": "+err.Error(), nil)
	}
}

func trimSentinel(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
