package reports

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"docreview-backend/internal/llm"
)

func TestDetectHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		llmErr     error
		wantStatus int
	}{
		{name: "ok", body: `{"projectName":"tower","files":["day1.txt","sow.txt"],"anomalyStartDate":"2026-03-01"}`, wantStatus: http.StatusOK},
		{name: "fewer than two files", body: `{"projectName":"tower","files":["day1.txt"]}`, wantStatus: http.StatusBadRequest},
		{name: "missing document", body: `{"projectName":"tower","files":["nope.txt","sow.txt"]}`, wantStatus: http.StatusNotFound},
		{name: "rate limited", body: `{"projectName":"tower","files":["day1.txt","sow.txt"]}`, llmErr: llm.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
		{name: "quota", body: `{"projectName":"tower","files":["day1.txt","sow.txt"]}`, llmErr: llm.ErrQuotaExhausted, wantStatus: http.StatusPaymentRequired},
		{name: "not configured", body: `{"projectName":"tower","files":["day1.txt","sow.txt"]}`, llmErr: llm.ErrNotImplemented, wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			model := &fakeLLM{reply: "• A | b | c | Impact: Low", err: tt.llmErr}
			r := gin.New()
			NewHandler(newTestService(t, model)).RegisterRoutes(r.Group("/api"))

			req := httptest.NewRequest(http.MethodPost, "/api/daily-reports/anomaly-detect", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.Code, resp.Body.String())
			}
			var payload map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.wantStatus == http.StatusOK {
				if payload["anomalies"] != "• A | b | c | Impact: Low" {
					t.Fatalf("unexpected payload %v", payload)
				}
				return
			}
			if msg, _ := payload["error"].(string); msg == "" {
				t.Fatalf("expected error message, got %v", payload)
			}
		})
	}
}

func TestDetectHandlerValidationMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(newTestService(t, &fakeLLM{})).RegisterRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodPost, "/api/daily-reports/anomaly-detect", bytes.NewBufferString(`{"files":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload["error"] != "Project and at least 2 files required" {
		t.Fatalf("unexpected error message %v", payload["error"])
	}
}
