package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func multipartBody(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestUploadAndListRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	body, contentType := multipartBody(t, "sow.pdf", "%PDF-1.4")
	req := httptest.NewRequest(http.MethodPost, "/api/projects/tower/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var up struct {
		Success bool   `json:"success"`
		Path    string `json:"path"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !up.Success || up.Path != "tower/sow.pdf" {
		t.Fatalf("unexpected upload response %+v", up)
	}

	body, contentType = multipartBody(t, "day1.pdf", "%PDF-1.4")
	req = httptest.NewRequest(http.MethodPost, "/api/projects/daily-reports/tower/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for daily upload, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	var projects []string
	_ = json.NewDecoder(resp.Body).Decode(&projects)
	if len(projects) != 1 || projects[0] != "tower" {
		t.Fatalf("unexpected projects %v", projects)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/projects/tower/files/meta", nil))
	var metas []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&metas)
	if len(metas) != 1 || metas[0]["name"] != "sow.pdf" || metas[0]["last_modified"] == nil {
		t.Fatalf("unexpected metas %v", metas)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/projects/daily-reports/tower/files", nil))
	var daily []string
	_ = json.NewDecoder(resp.Body).Decode(&daily)
	if len(daily) != 1 || daily[0] != "day1.pdf" {
		t.Fatalf("unexpected daily reports %v", daily)
	}
}

func TestUploadWithoutFileIsBadRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/tower/upload", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload["error"] == nil {
		t.Fatalf("expected error field, got %v", payload)
	}
}

func TestDeleteFileRoute(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()
	if _, err := svc.Upload(ctx, "tower", "sow.pdf", "", bytes.NewBufferString("x")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	_ = svc.Finals.Assign(ctx, "tower", "sow.pdf")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/projects/tower/files?fileName=sow.pdf", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		FinalCleared bool `json:"finalCleared"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if !payload.FinalCleared {
		t.Fatalf("expected finalCleared true")
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/projects/tower/files?fileName=sow.pdf", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/projects/tower/files", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without fileName, got %d", resp.Code)
	}
}
