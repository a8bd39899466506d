package finals

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. The project column is the primary
// key, which enforces a single final file per project.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

// Get returns the final file for a project.
func (r *PGRepo) Get(ctx context.Context, project string) (string, error) {
	const query = `
SELECT file_name
FROM project_final_files
WHERE project = $1`
	var name string
	if err := r.DB.QueryRowContext(ctx, query, project).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return name, nil
}

// Set upserts the final file for a project.
func (r *PGRepo) Set(ctx context.Context, project, fileName string) error {
	const query = `
INSERT INTO project_final_files (project, file_name, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (project) DO UPDATE
SET file_name = EXCLUDED.file_name, updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, project, fileName, r.now())
	return err
}

// Delete removes the final file for a project.
func (r *PGRepo) Delete(ctx context.Context, project string) error {
	const query = `DELETE FROM project_final_files WHERE project = $1`
	_, err := r.DB.ExecContext(ctx, query, project)
	return err
}

func (r *PGRepo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

var _ Repo = (*PGRepo)(nil)
