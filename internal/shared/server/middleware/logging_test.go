package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"docreview-backend/internal/shared/telemetry"
)

func TestLoggingIncludesRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(nil) })

	router := gin.New()
	router.Use(RequestID(), Logging())
	router.POST("/api/projects/:project/upload", func(c *gin.Context) {
		c.Set(FilesKey, []string{"daily-01.pdf"})
		c.Set(OutcomeKey, "stored")
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/tower-a/upload", nil)
	req.Header.Set("X-Request-Id", "req-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	entries := logs.FilterMessage("request.complete").AllUntimed()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	payload := entries[0].ContextMap()

	required := []string{"request_id", "method", "path", "route", "status", "duration_ms", "project", "files", "outcome"}
	for _, key := range required {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing log field: %s", key)
		}
	}
	if payload["request_id"] != "req-1" {
		t.Fatalf("unexpected request_id: %v", payload["request_id"])
	}
	if payload["project"] != "tower-a" {
		t.Fatalf("unexpected project: %v", payload["project"])
	}
	if payload["route"] != "/api/projects/:project/upload" {
		t.Fatalf("unexpected route: %v", payload["route"])
	}
	if payload["outcome"] != "stored" {
		t.Fatalf("unexpected outcome: %v", payload["outcome"])
	}
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := resp.Header().Get("X-Request-Id")
	if len(id) != 36 {
		t.Fatalf("expected uuid request id, got %q", id)
	}
	if resp.Body.String() != id {
		t.Fatalf("context id %q does not match header %q", resp.Body.String(), id)
	}
}
