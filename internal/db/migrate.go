package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

var schemaV1 = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id {{serial}},
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at {{timestamp}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id {{serial}},
		user_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		status TEXT NOT NULL DEFAULT 'pending',
		estimated_pomodoros INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		due_date {{timestamp}} NULL,
		created_at {{timestamp}} NOT NULL,
		updated_at {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks (user_id, status)`,
	`CREATE TABLE IF NOT EXISTS timer_settings (
		user_id INTEGER PRIMARY KEY,
		pomodoro_duration INTEGER NOT NULL,
		short_break_duration INTEGER NOT NULL,
		long_break_duration INTEGER NOT NULL,
		early_bird_mode BOOLEAN NOT NULL DEFAULT FALSE,
		night_owl_mode BOOLEAN NOT NULL DEFAULT FALSE,
		work_start_hour INTEGER NOT NULL DEFAULT 8,
		work_end_hour INTEGER NOT NULL DEFAULT 18,
		updated_at {{timestamp}} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS focus_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		task_id INTEGER NULL,
		type TEXT NOT NULL,
		duration INTEGER NOT NULL,
		started_at {{timestamp}} NOT NULL,
		completed_at {{timestamp}} NULL,
		is_completed BOOLEAN NOT NULL DEFAULT FALSE,
		interrupted BOOLEAN NOT NULL DEFAULT FALSE,
		interruption_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_user_started ON focus_sessions (user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id {{serial}},
		event_name TEXT NOT NULL,
		event_time {{timestamp}} NOT NULL,
		user_id INTEGER NOT NULL,
		session_id TEXT NULL,
		platform TEXT NOT NULL,
		app_version TEXT NOT NULL DEFAULT '',
		device_locale TEXT NULL,
		ip_country TEXT NULL,
		source_event_key TEXT NULL UNIQUE,
		properties {{json}} NOT NULL
	)`,
}

func (d Dialect) expand(stmt string) string {
	r := strings.NewReplacer(
		"{{serial}}", "SERIAL PRIMARY KEY",
		"{{timestamp}}", "TIMESTAMPTZ",
		"{{json}}", "JSONB",
	)
	if d == SQLite {
		r = strings.NewReplacer(
			"{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
			"{{timestamp}}", "TEXT",
			"{{json}}", "TEXT",
		)
	}
	return r.Replace(stmt)
}

// Migrate ensures the schema exists and is upgraded to SchemaVersion.
func Migrate(ctx context.Context, dbx *sql.DB, d Dialect) error {
	if dbx == nil {
		return fmt.Errorf("migrate: db is nil")
	}

	_, err := dbx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`)
	if err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	err = dbx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}

	if current >= SchemaVersion {
		return nil
	}

	tx, err := dbx.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaV1 {
		if _, err := tx.ExecContext(ctx, d.expand(stmt)); err != nil {
			return fmt.Errorf("migrate: statement %d: %w", i+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx, d.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
