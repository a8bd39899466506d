package progress

import (
	"context"
	"fmt"
	"strings"
)

// Service validates and records progress points.
type Service struct {
	Repo Repo
}

// Record stores progress (0..100) for project on date (YYYY-MM-DD).
func (s *Service) Record(ctx context.Context, project, date string, value float64) (ChartPoint, error) {
	project = strings.TrimSpace(project)
	date = strings.TrimSpace(date)
	if project == "" {
		return ChartPoint{}, fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if _, err := ParseDate(date); err != nil {
		return ChartPoint{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if !ValidProgress(value) {
		return ChartPoint{}, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
	}
	p := ChartPoint{Date: date, Progress: value}
	if err := s.Repo.Upsert(ctx, project, p); err != nil {
		return ChartPoint{}, err
	}
	return p, nil
}

// Chart returns the series of project starting at startDate. An empty
// startDate returns the whole series.
func (s *Service) Chart(ctx context.Context, project, startDate string) ([]ChartPoint, error) {
	project = strings.TrimSpace(project)
	startDate = strings.TrimSpace(startDate)
	if project == "" {
		return nil, fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if startDate != "" {
		if _, err := ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("%w: startDate must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	points, err := s.Repo.List(ctx, project, startDate)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []ChartPoint{}
	}
	return points, nil
}
