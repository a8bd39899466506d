// Package backend is a typed HTTP client for the document review API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"docreview-backend/internal/comparison"
	"docreview-backend/internal/progress"
	"docreview-backend/internal/projects"
)

// APIError is returned for non-2xx responses.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// ServerMessage returns the server-supplied "error" text.
func (e *APIError) ServerMessage() string { return e.Message }

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the API rooted at BaseURL (including the /api prefix).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. A nil httpClient uses a client with a 5 minute
// timeout, which covers LLM-backed calls.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Projects lists project names.
func (c *Client) Projects(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &out)
	return out, err
}

// Files lists the file names of project.
func (c *Client) Files(ctx context.Context, project string) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(project)+"/files", nil, nil, &out)
	return out, err
}

// FilesMeta lists files of project with size and modification time.
func (c *Client) FilesMeta(ctx context.Context, project string) ([]projects.FileMeta, error) {
	var out []projects.FileMeta
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(project)+"/files/meta", nil, nil, &out)
	return out, err
}

// DailyReports lists the daily report names of project.
func (c *Client) DailyReports(ctx context.Context, project string) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/projects/daily-reports/"+url.PathEscape(project)+"/files", nil, nil, &out)
	return out, err
}

// UploadResult is the upload response.
type UploadResult struct {
	Success bool   `json:"success"`
	Project string `json:"project"`
	File    string `json:"file"`
	Path    string `json:"path"`
}

// Upload stores r as a project file.
func (c *Client) Upload(ctx context.Context, project, fileName string, r io.Reader) (UploadResult, error) {
	return c.upload(ctx, "/projects/"+url.PathEscape(project)+"/upload", fileName, r)
}

// UploadDailyReport stores r as a daily report of project.
func (c *Client) UploadDailyReport(ctx context.Context, project, fileName string, r io.Reader) (UploadResult, error) {
	return c.upload(ctx, "/projects/daily-reports/"+url.PathEscape(project)+"/upload", fileName, r)
}

func (c *Client) upload(ctx context.Context, path, fileName string, r io.Reader) (UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResult{}, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}
	var out UploadResult
	err = c.do(ctx, http.MethodPost, path, &body, map[string]string{"Content-Type": writer.FormDataContentType()}, &out)
	return out, err
}

// DeleteFile deletes a project file. It reports whether the project's final
// file was cleared as a consequence.
func (c *Client) DeleteFile(ctx context.Context, project, fileName string) (bool, error) {
	var out struct {
		FinalCleared bool `json:"finalCleared"`
	}
	path := "/projects/" + url.PathEscape(project) + "/files?fileName=" + url.QueryEscape(fileName)
	err := c.do(ctx, http.MethodDelete, path, nil, nil, &out)
	return out.FinalCleared, err
}

// Finalize marks fileName as the project's final file on the server.
func (c *Client) Finalize(ctx context.Context, project, fileName string) error {
	return c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(project)+"/finalize",
		map[string]string{"finalFile": fileName}, nil)
}

// Final returns the server-side final file. ok is false when none is set.
func (c *Client) Final(ctx context.Context, project string) (string, bool, error) {
	var out struct {
		FinalFile string `json:"finalFile"`
	}
	err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(project)+"/final", nil, nil, &out)
	if IsNotFound(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return out.FinalFile, true, nil
}

// ClearFinal clears the server-side final file.
func (c *Client) ClearFinal(ctx context.Context, project string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(project)+"/final", nil, nil, nil)
}

// DetectAnomalies returns the raw anomaly report.
func (c *Client) DetectAnomalies(ctx context.Context, req comparison.DetectRequest) (string, error) {
	var out struct {
		Anomalies string `json:"anomalies"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/daily-reports/anomaly-detect", req, &out)
	return out.Anomalies, err
}

// ProgressChart returns the progress series of project from startDate on.
func (c *Client) ProgressChart(ctx context.Context, project, startDate string) ([]progress.ChartPoint, error) {
	path := "/projects/" + url.PathEscape(project) + "/progress-chart"
	if startDate != "" {
		path += "?startDate=" + url.QueryEscape(startDate)
	}
	var out progress.ChartResponse
	err := c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out.ChartData, err
}

// RecordProgress stores a progress point.
func (c *Client) RecordProgress(ctx context.Context, project, date string, value float64) error {
	return c.doJSON(ctx, http.MethodPost, "/projects/"+url.PathEscape(project)+"/progress",
		map[string]any{"date": date, "progress": value}, nil)
}

// CompareContracts returns a markdown comparison of two project files.
func (c *Client) CompareContracts(ctx context.Context, project, first, second string) (string, error) {
	var out struct {
		Comparison string `json:"comparison"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/contracts/compare",
		map[string]any{"projectName": project, "files": []string{first, second}}, &out)
	return out.Comparison, err
}

// Ask asks a question about one project file.
func (c *Client) Ask(ctx context.Context, project, fileName, question string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/document-chat",
		map[string]string{"projectName": project, "fileName": fileName, "question": question}, &out)
	return out.Answer, err
}

// Summarize returns a markdown summary of one project file.
func (c *Client) Summarize(ctx context.Context, project, fileName string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
	}
	err := c.doJSON(ctx, http.MethodPost, "/document-summary",
		map[string]string{"projectName": project, "fileName": fileName}, &out)
	return out.Summary, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), map[string]string{"Content-Type": "application/json"}, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
			apiErr.Code = payload.Code
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

var _ comparison.Backend = (*Client)(nil)
