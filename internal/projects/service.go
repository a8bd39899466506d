package projects

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"docreview-backend/internal/finals"
	"docreview-backend/internal/shared/metrics"
	"docreview-backend/internal/shared/storage/object"
	"docreview-backend/internal/shared/telemetry"
	"docreview-backend/internal/shared/util"
)

// Service implements project and file operations over an object store.
type Service struct {
	Store  object.ObjectStore
	Finals *finals.Registry
}

// ListProjects returns the distinct project names, sorted.
func (s *Service) ListProjects(ctx context.Context) ([]string, error) {
	objects, err := s.Store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, obj := range objects {
		project, _, ok := strings.Cut(obj.Key, "/")
		if !ok || project == "" || project == DailyReportsNamespace {
			continue
		}
		if _, dup := seen[project]; dup {
			continue
		}
		seen[project] = struct{}{}
		out = append(out, project)
	}
	sort.Strings(out)
	return out, nil
}

// ListFiles returns the file names of project.
func (s *Service) ListFiles(ctx context.Context, project string) ([]string, error) {
	metas, err := s.FilesMeta(ctx, project)
	if err != nil {
		return nil, err
	}
	return names(metas), nil
}

// FilesMeta returns name, modification time and size of each file of project.
func (s *Service) FilesMeta(ctx context.Context, project string) ([]FileMeta, error) {
	project, err := util.SanitizeProjectName(project)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.listUnder(ctx, project+"/")
}

// ListDailyReports returns the daily report names of project.
func (s *Service) ListDailyReports(ctx context.Context, project string) ([]string, error) {
	project, err := util.SanitizeProjectName(project)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	metas, err := s.listUnder(ctx, DailyReportsNamespace+"/"+project+"/")
	if err != nil {
		return nil, err
	}
	return names(metas), nil
}

func (s *Service) listUnder(ctx context.Context, prefix string) ([]FileMeta, error) {
	objects, err := s.Store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]FileMeta, 0, len(objects))
	for _, obj := range objects {
		name := strings.TrimPrefix(obj.Key, prefix)
		if name == "" || strings.Contains(name, "/") {
			continue
		}
		out = append(out, FileMeta{
			Name:         name,
			LastModified: obj.LastModified.UTC(),
			Size:         obj.SizeBytes,
		})
	}
	return out, nil
}

// Upload stores r as project/fileName, replacing any existing file.
func (s *Service) Upload(ctx context.Context, project, fileName, contentType string, r io.Reader) (Upload, error) {
	return s.put(ctx, project, fileName, contentType, r, ProjectKey)
}

// UploadDailyReport stores r as daily-reports/project/fileName.
func (s *Service) UploadDailyReport(ctx context.Context, project, fileName, contentType string, r io.Reader) (Upload, error) {
	return s.put(ctx, project, fileName, contentType, r, DailyReportKey)
}

func (s *Service) put(ctx context.Context, project, fileName, contentType string, r io.Reader, key func(string, string) string) (Upload, error) {
	project, err := util.SanitizeProjectName(project)
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fileName, err = util.SanitizeFileName(fileName)
	if err != nil {
		return Upload{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	path := key(project, fileName)
	size, err := s.Store.Put(ctx, path, contentType, r)
	if err != nil {
		return Upload{}, err
	}
	metrics.IncUpload()
	telemetry.Info("file.uploaded", map[string]any{
		"project":    project,
		"file":       fileName,
		"path":       path,
		"size_bytes": size,
	})
	return Upload{Project: project, File: fileName, Path: path, Size: size}, nil
}

// DeleteFile removes project/fileName. When the file was the project's final
// file, the final file is cleared as well.
func (s *Service) DeleteFile(ctx context.Context, project, fileName string) (finalCleared bool, err error) {
	project, err = util.SanitizeProjectName(project)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fileName, err = util.SanitizeFileName(fileName)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.Store.Delete(ctx, ProjectKey(project, fileName)); err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if s.Finals == nil {
		return false, nil
	}
	return s.Finals.ClearIf(ctx, project, fileName)
}

func names(metas []FileMeta) []string {
	out := make([]string, 0, len(metas))
	for _, m := range metas {
		out = append(out, m.Name)
	}
	return out
}

var _ finals.FileLister = (*Service)(nil)
