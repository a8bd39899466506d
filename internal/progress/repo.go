package progress

import "context"

// Repo persists progress points.
type Repo interface {
	// Upsert stores p, replacing any point of project on the same date.
	Upsert(ctx context.Context, project string, p ChartPoint) error
	// List returns points with date >= since (all when since is empty), ascending by date.
	List(ctx context.Context, project, since string) ([]ChartPoint, error)
}
