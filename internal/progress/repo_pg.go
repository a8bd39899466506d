package progress

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

// Upsert stores a point keyed by (project, point_date).
func (r *PGRepo) Upsert(ctx context.Context, project string, p ChartPoint) error {
	const query = `
INSERT INTO progress_points (project, point_date, progress, recorded_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (project, point_date) DO UPDATE
SET progress = EXCLUDED.progress, recorded_at = EXCLUDED.recorded_at`
	_, err := r.DB.ExecContext(ctx, query, project, p.Date, p.Progress, r.now())
	return err
}

// List returns points on or after since, ascending by date.
func (r *PGRepo) List(ctx context.Context, project, since string) ([]ChartPoint, error) {
	const base = `
SELECT to_char(point_date, 'YYYY-MM-DD'), progress
FROM progress_points
WHERE project = $1`

	var (
		rows *sql.Rows
		err  error
	)
	if since == "" {
		rows, err = r.DB.QueryContext(ctx, base+"\nORDER BY point_date ASC", project)
	} else {
		rows, err = r.DB.QueryContext(ctx, base+" AND point_date >= $2\nORDER BY point_date ASC", project, since)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChartPoint
	for rows.Next() {
		var p ChartPoint
		if err := rows.Scan(&p.Date, &p.Progress); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PGRepo) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

var _ Repo = (*PGRepo)(nil)
