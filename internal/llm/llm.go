package llm

import (
	"context"
	"errors"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request.
type Request struct {
	Messages    []Message
	Temperature float32
}

// Client abstracts chat completion providers.
type Client interface {
	Chat(ctx context.Context, req Request) (string, error)
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")
	// ErrRateLimited is returned when the provider throttles requests.
	ErrRateLimited = errors.New("LLM rate limited")
	// ErrQuotaExhausted is returned when the provider account is out of quota.
	ErrQuotaExhausted = errors.New("LLM quota exhausted")
)

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Chat returns ErrNotImplemented.
func (PlaceholderClient) Chat(ctx context.Context, req Request) (string, error) {
	_ = ctx
	_ = req
	return "", ErrNotImplemented
}

// Truncate caps text at max runes.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}
