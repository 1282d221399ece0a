package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migrations are applied in order; index+1 is the schema version they produce.
var migrations = []string{
	// 1: adapter configuration, last-synced directory, photo lookup cache
	`
	CREATE TABLE IF NOT EXISTS sync_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		sheets_api_key TEXT NOT NULL DEFAULT '',
		spreadsheet_id TEXT NOT NULL DEFAULT '',
		leadership_range TEXT NOT NULL DEFAULT '',
		general_range TEXT NOT NULL DEFAULT '',
		alumni_range TEXT NOT NULL DEFAULT '',
		drive_api_key TEXT NOT NULL DEFAULT '',
		photo_folder_id TEXT NOT NULL DEFAULT '',
		sync_interval_seconds INTEGER NOT NULL DEFAULT 0,
		last_sync_at TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS directory_record (
		category TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		role_or_title TEXT NOT NULL DEFAULT '',
		affiliation TEXT NOT NULL DEFAULT '',
		period TEXT NOT NULL DEFAULT '',
		interest_tag TEXT NOT NULL DEFAULT '',
		photo_ref TEXT NOT NULL,
		contact_link TEXT NOT NULL,
		bio TEXT NOT NULL DEFAULT '',
		filter_label TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (category, position)
	);

	CREATE TABLE IF NOT EXISTS photo_cache (
		filename TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		resolved_at TEXT NOT NULL
	);
	`,
	// 2: sync cycle log
	`
	CREATE TABLE IF NOT EXISTS sync_run (
		id TEXT PRIMARY KEY,
		triggered_by TEXT NOT NULL,
		source TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		leadership_count INTEGER NOT NULL DEFAULT 0,
		general_count INTEGER NOT NULL DEFAULT 0,
		alumni_count INTEGER NOT NULL DEFAULT 0,
		warnings TEXT NOT NULL DEFAULT '[]',
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sync_run_started ON sync_run(started_at DESC);
	`,
}

// LatestSchemaVersion returns the version produced by applying every migration.
func LatestSchemaVersion() int {
	return len(migrations)
}

// SchemaVersion returns the currently applied schema version (0 for a fresh database).
// PRE: db is a valid database connection
// POST: Returns the version without modifying the database
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists); err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB applies every pending migration inside its own transaction.
// PRE: db is a valid database connection
// POST: Schema is at LatestSchemaVersion
// INVARIANT: Applied migrations are never re-run
func MigrateDB(db *sql.DB, dbPath string) error {
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP)"); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", version, err)
		}
		slog.Info("schema_migrated", "db", dbPath, "version", version)
	}
	return nil
}

// DSN returns the modernc sqlite DSN with WAL, busy timeout and foreign keys enabled.
func DSN(path string) string {
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}
