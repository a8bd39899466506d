package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"

	"docreview-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded schema (final files, progress points)
// with goose. A nil database is a no-op so in-memory setups can call it.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		telemetry.Error("db.migrate_failed", map[string]any{"error": err})
		return err
	}
	version, err := goose.GetDBVersionContext(ctx, database)
	if err != nil {
		return err
	}
	telemetry.Info("db.migrated", map[string]any{"version": version})
	return nil
}
