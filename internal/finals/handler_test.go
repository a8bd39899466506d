package finals

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type staticLister map[string][]string

func (s staticLister) ListFiles(_ context.Context, project string) ([]string, error) {
	return s[project], nil
}

func newTestRouter(reg *Registry, files FileLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(reg, files).RegisterRoutes(r.Group("/api"))
	return r
}

func TestFinalizeAssignsListedFile(t *testing.T) {
	reg := NewRegistry(NewMemoryRepo())
	router := newTestRouter(reg, staticLister{"tower": {"sow.pdf", "draft.pdf"}})

	body := bytes.NewBufferString(`{"finalFile":"sow.pdf"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/tower/finalize", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	got, ok, _ := reg.Get(context.Background(), "tower")
	if !ok || got != "sow.pdf" {
		t.Fatalf("expected sow.pdf final, got %q", got)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/projects/tower/final", nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respGet.Code)
	}
	var payload finalResponse
	if err := json.NewDecoder(respGet.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Project != "tower" || payload.FinalFile != "sow.pdf" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestFinalizeRejects(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "unknown file", body: `{"finalFile":"missing.pdf"}`, wantStatus: http.StatusNotFound},
		{name: "empty file", body: `{"finalFile":"  "}`, wantStatus: http.StatusBadRequest},
		{name: "bad json", body: `{`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry(NewMemoryRepo())
			router := newTestRouter(reg, staticLister{"tower": {"sow.pdf"}})

			req := httptest.NewRequest(http.MethodPost, "/api/projects/tower/finalize", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.Code)
			}
			var payload map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if msg, _ := payload["error"].(string); msg == "" {
				t.Fatalf("expected error message, got %v", payload)
			}
			if _, ok, _ := reg.Get(context.Background(), "tower"); ok {
				t.Fatalf("final must stay unset")
			}
		})
	}
}

func TestGetAndClearFinal(t *testing.T) {
	reg := NewRegistry(NewMemoryRepo())
	router := newTestRouter(reg, staticLister{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/projects/tower/final", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without final, got %d", resp.Code)
	}

	_ = reg.Assign(context.Background(), "tower", "sow.pdf")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/projects/tower/final", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 on clear, got %d", resp.Code)
	}
	if _, ok, _ := reg.Get(context.Background(), "tower"); ok {
		t.Fatalf("expected final cleared")
	}
}

func TestFinalizeUsesNormalizedProject(t *testing.T) {
	reg := NewRegistry(NewMemoryRepo())
	router := newTestRouter(reg, staticLister{"phase2": {"sow.pdf"}})

	body := bytes.NewBufferString(`{"finalFile":"sow.pdf"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/projects/phase..2/finalize", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	got, ok, _ := reg.Get(context.Background(), "phase2")
	if !ok || got != "sow.pdf" {
		t.Fatalf("expected final stored under phase2, got %q ok=%v", got, ok)
	}

	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, httptest.NewRequest(http.MethodGet, "/api/projects/phase..2/final", nil))
	if respGet.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respGet.Code)
	}

	respClear := httptest.NewRecorder()
	router.ServeHTTP(respClear, httptest.NewRequest(http.MethodDelete, "/api/projects/phase..2/final", nil))
	if respClear.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", respClear.Code)
	}
	if _, ok, _ := reg.Get(context.Background(), "phase2"); ok {
		t.Fatal("expected final cleared")
	}

	respBad := httptest.NewRecorder()
	router.ServeHTTP(respBad, httptest.NewRequest(http.MethodGet, "/api/projects/../final", nil))
	if respBad.Code == http.StatusOK {
		t.Fatal("expected traversal-only project to be rejected")
	}
}
