// Package appstate persists the CLI's working state (selected project and
// files, final file per project, last anomaly report) in a YAML file.
//
// The lifecycle is explicit: Load once at startup, and every mutating method
// saves the file before returning.
package appstate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"docreview-backend/internal/finals"
)

// Report is the last anomaly report fetched for a project.
type Report struct {
	CandidateFile string    `yaml:"candidate_file"`
	FinalFile     string    `yaml:"final_file"`
	StartDate     string    `yaml:"start_date"`
	Raw           string    `yaml:"raw"`
	CreatedAt     time.Time `yaml:"created_at"`
}

// State is the persisted document.
type State struct {
	SelectedProject string              `yaml:"selected_project,omitempty"`
	SelectedFiles   map[string][]string `yaml:"selected_files,omitempty"`
	Finals          map[string]string   `yaml:"finals,omitempty"`
	Reports         map[string]Report   `yaml:"reports,omitempty"`
}

// Store guards State and writes it back to path.
type Store struct {
	path string

	mu    sync.Mutex
	state State
}

// Load reads path. A missing file yields an empty state.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Save writes the state atomically.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(&s.state)
}

func (s *Store) write(st *State) error {
	raw, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// mutate applies fn to a copy of the state and keeps the copy only once it
// has been written. A failed save leaves the state unchanged.
func (s *Store) mutate(fn func(*State)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.state.clone()
	fn(&next)
	if err := s.write(&next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Snapshot returns a deep copy of the state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (st State) clone() State {
	out := State{SelectedProject: st.SelectedProject}
	if st.SelectedFiles != nil {
		out.SelectedFiles = make(map[string][]string, len(st.SelectedFiles))
		for k, v := range st.SelectedFiles {
			out.SelectedFiles[k] = slices.Clone(v)
		}
	}
	if st.Finals != nil {
		out.Finals = maps.Clone(st.Finals)
	}
	if st.Reports != nil {
		out.Reports = maps.Clone(st.Reports)
	}
	return out
}

// SelectProject switches the selected project.
func (s *Store) SelectProject(project string) error {
	return s.mutate(func(st *State) { st.SelectedProject = project })
}

// SelectedProject returns the selected project, if any.
func (s *Store) SelectedProject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.SelectedProject
}

// SetSelectedFiles replaces the candidate files selected in project.
func (s *Store) SetSelectedFiles(project string, files []string) error {
	return s.mutate(func(st *State) {
		if len(files) == 0 {
			delete(st.SelectedFiles, project)
			return
		}
		if st.SelectedFiles == nil {
			st.SelectedFiles = make(map[string][]string)
		}
		st.SelectedFiles[project] = slices.Clone(files)
	})
}

// SelectedFiles returns the candidate files selected in project.
func (s *Store) SelectedFiles(project string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.state.SelectedFiles[project])
}

// SetFinal records fileName as the final file of project.
func (s *Store) SetFinal(project, fileName string) error {
	return s.mutate(func(st *State) {
		if st.Finals == nil {
			st.Finals = make(map[string]string)
		}
		st.Finals[project] = fileName
	})
}

// DeleteFinal forgets the final file of project.
func (s *Store) DeleteFinal(project string) error {
	return s.mutate(func(st *State) { delete(st.Finals, project) })
}

// RecordReport stores the latest anomaly report of project.
func (s *Store) RecordReport(project string, r Report) error {
	return s.mutate(func(st *State) {
		if st.Reports == nil {
			st.Reports = make(map[string]Report)
		}
		st.Reports[project] = r
	})
}

// LastReport returns the latest anomaly report of project.
func (s *Store) LastReport(project string) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state.Reports[project]
	return r, ok
}

// Get implements finals.Repo.
func (s *Store) Get(ctx context.Context, project string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.state.Finals[project]
	if !ok {
		return "", finals.ErrNotFound
	}
	return name, nil
}

// Set implements finals.Repo.
func (s *Store) Set(ctx context.Context, project, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.SetFinal(project, fileName)
}

// Delete implements finals.Repo.
func (s *Store) Delete(ctx context.Context, project string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.DeleteFinal(project)
}

var _ finals.Repo = (*Store)(nil)
