package store

import (
	"context"
	"fmt"
)

// migration holds a single schema migration with its target version and the
// statements that bring the schema to it.
type migration struct {
	version int
	stmts   []string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
// Statements stay within the SQL shared by SQLite and PostgreSQL.
var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id            TEXT PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS categories (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name          TEXT NOT NULL,
				color         TEXT NOT NULL,
				display_order INTEGER NOT NULL DEFAULT 0,
				created_at    TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS missions (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				category_id   TEXT NULL REFERENCES categories(id) ON DELETE SET NULL,
				title         TEXT NOT NULL,
				state         TEXT NOT NULL DEFAULT 'NOT_STARTED',
				display_order INTEGER NOT NULL DEFAULT 0,
				cancelled_at  TIMESTAMP NULL,
				created_at    TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id            TEXT PRIMARY KEY,
				mission_id    TEXT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
				title         TEXT NOT NULL,
				state         TEXT NOT NULL DEFAULT 'NOT_STARTED',
				display_order INTEGER NOT NULL DEFAULT 0,
				cancelled_at  TIMESTAMP NULL,
				created_at    TIMESTAMP NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS selected_tasks (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				task_id       TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
				display_order INTEGER NOT NULL DEFAULT 0,
				created_at    TIMESTAMP NOT NULL,
				UNIQUE (user_id, task_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_missions_user ON missions(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_missions_category ON missions(category_id)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_mission ON tasks(mission_id)`,
			`CREATE INDEX IF NOT EXISTS idx_selected_tasks_user ON selected_tasks(user_id)`,
			`CREATE INDEX IF NOT EXISTS idx_selected_tasks_task ON selected_tasks(task_id)`,
		},
	},
	{
		version: 2,
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS user_preferences (
				user_id                  TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				primary_color            TEXT NOT NULL DEFAULT '#5A9AA8',
				background_base_color    TEXT NOT NULL DEFAULT '#C4DDE0',
				background_surface_color TEXT NOT NULL DEFAULT '#F5E6D3',
				accent_color             TEXT NOT NULL DEFAULT '#D4A574',
				created_at               TIMESTAMP NOT NULL,
				updated_at               TIMESTAMP NOT NULL
			)`,
		},
	},
}

// runMigrations reads the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func (s *SQLStore) runMigrations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func (s *SQLStore) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO schema_version (version) VALUES (?)"), m.version); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLStore) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.get(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// LatestSchemaVersion returns the version the migrations bring a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}
