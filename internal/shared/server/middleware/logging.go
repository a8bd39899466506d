package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	ProjectKey = "project"
	FilesKey   = "files"
	OutcomeKey = "outcome"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		project := c.GetString(ProjectKey)
		if project == "" {
			project = c.Param("project")
		}
		files, _ := c.Get(FilesKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"outcome":     c.GetString(OutcomeKey),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"project":     project,
			"files":       files,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
