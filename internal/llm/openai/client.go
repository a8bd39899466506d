package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"docreview-backend/internal/llm"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/telemetry"
)

const (
	defaultBaseURL    = "https://api.openai.com/v1"
	defaultAPIVersion = "2025-01-01-preview"
)

// Options configures a Client. Azure selects the Azure OpenAI deployment
// URL layout and api-key header; Model is then the deployment name.
type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Azure      bool
	APIVersion string
	Timeout    time.Duration
}

// Client implements llm.Client using Chat Completions.
type Client struct {
	opts       Options
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a new chat completions client.
func NewClient(opts Options) (*Client, error) {
	opts.Model = strings.TrimSpace(opts.Model)
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.Model == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if opts.Azure && strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("LLM_BASE_URL is required for Azure OpenAI")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 120 * time.Second
		if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				opts.Timeout = time.Duration(parsed) * time.Second
			}
		}
	}
	return &Client{
		opts:     opts,
		endpoint: endpointFor(opts),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}, nil
}

func endpointFor(opts Options) string {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if !opts.Azure {
		if base == "" {
			base = defaultBaseURL
		}
		return base + "/chat/completions"
	}
	version := opts.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		base, url.PathEscape(opts.Model), url.QueryEscape(version))
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Chat sends req and returns the first choice's content.
func (c *Client) Chat(ctx context.Context, req llm.Request) (string, error) {
	content, err := c.chat(ctx, req)
	metrics.IncLLMCall(err != nil)
	return content, err
}

func (c *Client) chat(ctx context.Context, in llm.Request) (string, error) {
	reqBody := chatRequest{Messages: in.Messages}
	if !c.opts.Azure {
		reqBody.Model = c.opts.Model
	}
	if !isGPT5(c.opts.Model) {
		temp := in.Temperature
		reqBody.Temperature = &temp
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	if c.opts.Azure {
		req.Header.Set("api-key", c.opts.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	parseErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode >= 400 {
		return "", statusError(resp.StatusCode, parsed.Error, body)
	}
	if parseErr != nil {
		return "", fmt.Errorf("openai response parse: %w", parseErr)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}

	fields := map[string]any{
		"model":       c.opts.Model,
		"azure":       c.opts.Azure,
		"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
	}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
	return content, nil
}

// statusError maps provider failures onto the llm sentinel errors.
func statusError(status int, apiErr *apiError, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if apiErr != nil && apiErr.Message != "" {
		msg = apiErr.Message
	}
	switch {
	case status == http.StatusPaymentRequired:
		return fmt.Errorf("%w: %s", llm.ErrQuotaExhausted, msg)
	case status == http.StatusTooManyRequests && apiErr != nil && apiErr.Code == "insufficient_quota":
		return fmt.Errorf("%w: %s", llm.ErrQuotaExhausted, msg)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", llm.ErrRateLimited, msg)
	default:
		return fmt.Errorf("openai http status %d: %s", status, msg)
	}
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Client = (*Client)(nil)
