package migration

import (
	"context"
	"database/sql"
	"fmt"

	"pharmacatalog_api/pkg/logger"
)

type MigrationInterface interface {
	Name() string
	UpMigration(ctx context.Context, db *sql.DB) error
}

// Apply runs every migration in order, skipping the ones already recorded
// in migrations.migrations. The bookkeeping table itself is created first.
func Apply(ctx context.Context, db *sql.DB, log logger.Logger, migrations ...MigrationInterface) error {
	if _, err := db.ExecContext(ctx, `
		CREATE SCHEMA IF NOT EXISTS migrations;
		CREATE TABLE IF NOT EXISTS migrations.migrations (
			name VARCHAR(255) PRIMARY KEY,
			time TIMESTAMPTZ NOT NULL
		);`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		var migrationExists bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM migrations.migrations WHERE name = $1)", m.Name()).Scan(&migrationExists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if migrationExists {
			log.Log("Migration '%s' already completed. Skipping.", m.Name())
			continue
		}

		if err := m.UpMigration(ctx, db); err != nil {
			return fmt.Errorf("migration '%s' failed: %w", m.Name(), err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO migrations.migrations (name, time) VALUES ($1, current_timestamp)", m.Name()); err != nil {
			return fmt.Errorf("failed to mark %s migration as complete: %w", m.Name(), err)
		}
		log.Log("Migration '%s' completed successfully.", m.Name())
	}
	return nil
}
