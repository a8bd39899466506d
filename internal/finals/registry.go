// Package finals tracks which uploaded file is the authoritative baseline
// ("final file") of each project.
package finals

import (
	"context"
	"errors"
	"strings"
)

// Registry assigns and clears the final file of a project. Assignment only
// happens through Assign, Clear and Toggle.
type Registry struct {
	repo Repo
}

// NewRegistry constructs a Registry over repo.
func NewRegistry(repo Repo) *Registry {
	return &Registry{repo: repo}
}

// Get returns the final file of project. ok is false when none is set.
func (r *Registry) Get(ctx context.Context, project string) (name string, ok bool, err error) {
	project = strings.TrimSpace(project)
	if project == "" {
		return "", false, ErrInvalidInput
	}
	name, err = r.repo.Get(ctx, project)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return name, true, nil
}

// Assign makes fileName the sole final file of project, replacing any
// previous one. Whether fileName exists in the project is checked by callers
// against the live file listing.
func (r *Registry) Assign(ctx context.Context, project, fileName string) error {
	project = strings.TrimSpace(project)
	fileName = strings.TrimSpace(fileName)
	if project == "" || fileName == "" {
		return ErrInvalidInput
	}
	return r.repo.Set(ctx, project, fileName)
}

// Clear removes the final file of project.
func (r *Registry) Clear(ctx context.Context, project string) error {
	project = strings.TrimSpace(project)
	if project == "" {
		return ErrInvalidInput
	}
	return r.repo.Delete(ctx, project)
}

// Toggle clears the final file when fileName is already final and assigns it
// otherwise. It reports the final file after the call and whether one is set.
func (r *Registry) Toggle(ctx context.Context, project, fileName string) (string, bool, error) {
	current, ok, err := r.Get(ctx, project)
	if err != nil {
		return "", false, err
	}
	if ok && current == strings.TrimSpace(fileName) {
		if err := r.Clear(ctx, project); err != nil {
			return current, true, err
		}
		return "", false, nil
	}
	if err := r.Assign(ctx, project, fileName); err != nil {
		return current, ok, err
	}
	return strings.TrimSpace(fileName), true, nil
}

// ClearIf clears the final file of project only when it equals fileName.
// It is used when a file is deleted from the project.
func (r *Registry) ClearIf(ctx context.Context, project, fileName string) (bool, error) {
	current, ok, err := r.Get(ctx, project)
	if err != nil || !ok || current != fileName {
		return false, err
	}
	return true, r.Clear(ctx, project)
}
