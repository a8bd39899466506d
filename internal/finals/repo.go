package finals

import "context"

// Repo persists the final file of each project. Implementations keep at most
// one entry per project; Set replaces any existing entry.
type Repo interface {
	Get(ctx context.Context, project string) (string, error)
	Set(ctx context.Context, project, fileName string) error
	Delete(ctx context.Context, project string) error
}
