package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/chat"
	"docreview-backend/internal/finals"
	"docreview-backend/internal/progress"
	"docreview-backend/internal/projects"
	"docreview-backend/internal/reports"
	"docreview-backend/internal/services/health"
	"docreview-backend/internal/shared/config"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/server/middleware"
	"docreview-backend/internal/shared/server/respond"
)

// APIPrefix is the route group every API endpoint lives under.
const APIPrefix = "/api"

// RouterDeps are the handlers mounted on the router.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	ProjectsHandler *projects.Handler
	FinalsHandler   *finals.Handler
	ProgressHandler *progress.Handler
	ReportsHandler  *reports.Handler
	ChatHandler     *chat.Handler
	Limiter         *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.GroupLLM: middleware.PerMinute(deps.Config.RateLimitLLMPerMin),
			},
			GroupFor: middleware.LLMRoutes(
				APIPrefix+reports.RouteAnomalyDetect,
				APIPrefix+reports.RouteContractCompare,
				APIPrefix+chat.RouteDocumentChat,
				APIPrefix+chat.RouteDocumentSummary,
			),
			Limiter: deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	if deps.ProjectsHandler != nil {
		deps.ProjectsHandler.RegisterRoutes(api)
	}
	if deps.FinalsHandler != nil {
		deps.FinalsHandler.RegisterRoutes(api)
	}
	if deps.ProgressHandler != nil {
		deps.ProgressHandler.RegisterRoutes(api)
	}
	if deps.ReportsHandler != nil {
		deps.ReportsHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
