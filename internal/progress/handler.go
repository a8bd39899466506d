package progress

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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

// RegisterRoutes attaches progress routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:project/progress", h.record)
	rg.GET("/projects/:project/progress-chart", h.chart)
}

type recordRequest struct {
	Date     string   `json:"date"`
	Progress *float64 `json:"progress"`
}

// ChartResponse is the progress-chart payload.
type ChartResponse struct {
	ChartData []ChartPoint `json:"chartData"`
}

func (h *Handler) record(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Progress == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "progress is required", nil)
		return
	}

	p, err := h.Svc.Record(c.Request.Context(), c.Param("project"), req.Date, *req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record progress", nil)
		}
		return
	}

	respond.Created(c, p)
}

func (h *Handler) chart(c *gin.Context) {
	points, err := h.Svc.Chart(c.Request.Context(), c.Param("project"), c.Query("startDate"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load progress chart", nil)
		}
		return
	}

	respond.OK(c, ChartResponse{ChartData: points})
}
