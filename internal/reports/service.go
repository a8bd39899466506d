// Package reports runs the LLM-backed document reports: anomaly detection of
// a daily report against the project's final SOW, and contract comparison.
package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"docreview-backend/internal/extract"
	"docreview-backend/internal/llm"
	"docreview-backend/internal/projects"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/storage/object"
	"docreview-backend/internal/shared/telemetry"
	"docreview-backend/internal/shared/util"
)

// Service builds prompts from stored documents and calls the LLM.
type Service struct {
	Store object.ObjectStore
	LLM   llm.Client
}

// DetectAnomalies compares the daily report against the final SOW and
// returns the model's raw "•"-separated anomaly report.
func (s *Service) DetectAnomalies(ctx context.Context, req DetectRequest) (string, error) {
	project, err := util.SanitizeProjectName(req.ProjectName)
	if err != nil || len(req.Files) < 2 {
		return "", fmt.Errorf("%w: Project and at least 2 files required", ErrInvalidInput)
	}
	daily, final := strings.TrimSpace(req.Files[0]), strings.TrimSpace(req.Files[1])
	if daily == "" || final == "" {
		return "", fmt.Errorf("%w: Project and at least 2 files required", ErrInvalidInput)
	}

	metrics.IncDetectStarted()
	start := time.Now()
	raw, err := s.detect(ctx, project, daily, final, strings.TrimSpace(req.AnomalyStartDate))
	metrics.ObserveDetectDurationMs(metrics.Since(start))
	if err != nil {
		metrics.IncDetectFailed()
		telemetry.Error("anomaly.detect.failed", map[string]any{
			"project": project,
			"daily":   daily,
			"final":   final,
			"error":   err,
		})
		return "", err
	}
	metrics.IncDetectCompleted()
	telemetry.Info("anomaly.detect.completed", map[string]any{
		"project":     project,
		"daily":       daily,
		"final":       final,
		"duration_ms": metrics.Since(start),
	})
	return raw, nil
}

func (s *Service) detect(ctx context.Context, project, daily, final, startDate string) (string, error) {
	texts, err := s.loadTexts(ctx,
		projects.DailyReportKey(project, daily),
		projects.ProjectKey(project, final),
	)
	if err != nil {
		return "", err
	}

	req, err := llm.AnomalyDetectRequest(llm.AnomalyInput{
		Project:   project,
		StartDate: startDate,
		FinalFile: final,
		FinalText: texts[1],
		DailyFile: daily,
		DailyText: texts[0],
	})
	if err != nil {
		return "", err
	}
	return s.LLM.Chat(ctx, req)
}

// CompareContracts compares two files of the same project.
func (s *Service) CompareContracts(ctx context.Context, req CompareRequest) (string, error) {
	project, err := util.SanitizeProjectName(req.ProjectName)
	if err != nil || len(req.Files) < 2 {
		return "", fmt.Errorf("%w: Project and at least 2 files required", ErrInvalidInput)
	}
	first, second := strings.TrimSpace(req.Files[0]), strings.TrimSpace(req.Files[1])

	texts, err := s.loadTexts(ctx,
		projects.ProjectKey(project, first),
		projects.ProjectKey(project, second),
	)
	if err != nil {
		return "", err
	}

	prompt, err := llm.ContractCompareRequest(llm.CompareInput{
		Project:    project,
		FirstFile:  first,
		FirstText:  texts[0],
		SecondFile: second,
		SecondText: texts[1],
	})
	if err != nil {
		return "", err
	}
	out, err := s.LLM.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}
	telemetry.Info("contracts.compare.completed", map[string]any{
		"project": project,
		"files":   []string{first, second},
	})
	return out, nil
}

// loadTexts extracts the text of every key concurrently, preserving order.
func (s *Service) loadTexts(ctx context.Context, keys ...string) ([]string, error) {
	texts := make([]string, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			text, err := extract.ExtractText(gctx, s.Store, key)
			if err != nil {
				if errors.Is(err, object.ErrNotFound) {
					return fmt.Errorf("%w: %s", ErrDocumentNotFound, key)
				}
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
