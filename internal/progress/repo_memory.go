package progress

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]map[string]float64 // project -> date -> progress
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]map[string]float64)}
}

// Upsert stores a point.
func (r *MemoryRepo) Upsert(ctx context.Context, project string, p ChartPoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	points, ok := r.data[project]
	if !ok {
		points = make(map[string]float64)
		r.data[project] = points
	}
	points[p.Date] = p.Progress
	return nil
}

// List returns points on or after since. Dates are YYYY-MM-DD so string
// order equals chronological order.
func (r *MemoryRepo) List(ctx context.Context, project, since string) ([]ChartPoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ChartPoint, 0, len(r.data[project]))
	for date, value := range r.data[project] {
		if since != "" && date < since {
			continue
		}
		out = append(out, ChartPoint{Date: date, Progress: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
