package finals

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]string // project -> final file
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]string)}
}

// Get returns the final file for a project.
func (r *MemoryRepo) Get(ctx context.Context, project string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.data[project]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

// Set stores/overwrites the final file for a project.
func (r *MemoryRepo) Set(ctx context.Context, project, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[project] = fileName
	return nil
}

// Delete removes the final file for a project. Deleting an unset project is a no-op.
func (r *MemoryRepo) Delete(ctx context.Context, project string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, project)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
