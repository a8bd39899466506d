// Package chat answers questions about, and summarizes, a single project
// document.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docreview-backend/internal/extract"
	"docreview-backend/internal/llm"
	"docreview-backend/internal/projects"
	"docreview-backend/internal/shared/storage/object"
	"docreview-backend/internal/shared/util"
)

// Document text is capped before it is placed in the prompt.
const (
	MaxChatRunes    = 40000
	MaxSummaryRunes = 50000
)

var (
	// ErrInvalidInput is returned when the file name or question is missing.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDocumentNotFound is returned when the file is not stored.
	ErrDocumentNotFound = errors.New("document not found")
)

// Service grounds LLM calls on one stored document.
type Service struct {
	Store object.ObjectStore
	LLM   llm.Client
}

// Ask answers question using only the content of project/fileName. history
// holds earlier user and assistant turns.
func (s *Service) Ask(ctx context.Context, project, fileName, question string, history []llm.Message) (string, error) {
	fileName = strings.TrimSpace(fileName)
	question = strings.TrimSpace(question)
	if fileName == "" || question == "" {
		return "", fmt.Errorf("%w: Both 'fileName' and 'question' are required.", ErrInvalidInput)
	}

	text, err := s.documentText(ctx, project, fileName)
	if err != nil {
		return "", err
	}
	req, err := llm.DocumentChatRequest(llm.DocumentInput{
		Project:  project,
		FileName: fileName,
		Text:     llm.Truncate(text, MaxChatRunes),
	}, history, question)
	if err != nil {
		return "", err
	}
	return s.LLM.Chat(ctx, req)
}

// Summarize returns a markdown summary of project/fileName.
func (s *Service) Summarize(ctx context.Context, project, fileName string) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return "", fmt.Errorf("%w: 'fileName' is required.", ErrInvalidInput)
	}

	text, err := s.documentText(ctx, project, fileName)
	if err != nil {
		return "", err
	}
	req, err := llm.DocumentSummaryRequest(llm.DocumentInput{
		Project:  project,
		FileName: fileName,
		Text:     llm.Truncate(text, MaxSummaryRunes),
	})
	if err != nil {
		return "", err
	}
	return s.LLM.Chat(ctx, req)
}

func (s *Service) documentText(ctx context.Context, project, fileName string) (string, error) {
	project, err := util.SanitizeProjectName(project)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	text, err := extract.ExtractText(ctx, s.Store, projects.ProjectKey(project, fileName))
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrDocumentNotFound, fileName)
		}
		return "", err
	}
	return text, nil
}
