package respond

import (
	"github.com/gin-gonic/gin"

	"docreview-backend/internal/shared/telemetry"
)

// ErrorResponse is the error payload. Clients read the message from the
// "error" field; code is a stable machine-readable tag.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if project := c.Param("project"); project != "" {
		fields["project"] = project
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
