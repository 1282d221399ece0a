package syncconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sigsite/internal/adapters/storage"
	domain "sigsite/internal/domain/syncconfig"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sync config store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the persisted configuration and sync bookkeeping.
// PRE: none
// POST: Returns ErrNotFound (wrapped) when nothing has been saved yet
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context) (domain.State, error) {
	var st domain.State
	var intervalSec int64
	var lastSync sql.NullString
	var updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT sheets_api_key, spreadsheet_id, leadership_range, general_range, alumni_range,
			drive_api_key, photo_folder_id, sync_interval_seconds, last_sync_at, updated_at
		FROM sync_config
		WHERE id = 1
	`).Scan(
		&st.Config.SheetsAPIKey,
		&st.Config.SpreadsheetID,
		&st.Config.LeadershipRange,
		&st.Config.GeneralRange,
		&st.Config.AlumniRange,
		&st.Config.DriveAPIKey,
		&st.Config.PhotoFolderID,
		&intervalSec,
		&lastSync,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.State{}, fmt.Errorf("get sync_config: %w", ErrNotFound)
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("get sync_config: %w", err)
	}
	st.Config.SyncInterval = time.Duration(intervalSec) * time.Second
	if lastSync.Valid && lastSync.String != "" {
		st.LastSyncAt, _ = time.Parse(time.RFC3339Nano, lastSync.String)
	}
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return st, nil
}

// Save upserts the configuration, leaving last_sync_at untouched.
// PRE: cfg passes Validate
// POST: The single configuration row holds cfg
func (s *SQLiteStore) Save(ctx context.Context, cfg domain.Config, now time.Time) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_config (
			id, sheets_api_key, spreadsheet_id, leadership_range, general_range, alumni_range,
			drive_api_key, photo_folder_id, sync_interval_seconds, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sheets_api_key=excluded.sheets_api_key,
			spreadsheet_id=excluded.spreadsheet_id,
			leadership_range=excluded.leadership_range,
			general_range=excluded.general_range,
			alumni_range=excluded.alumni_range,
			drive_api_key=excluded.drive_api_key,
			photo_folder_id=excluded.photo_folder_id,
			sync_interval_seconds=excluded.sync_interval_seconds,
			updated_at=excluded.updated_at
	`,
		cfg.SheetsAPIKey,
		cfg.SpreadsheetID,
		cfg.LeadershipRange,
		cfg.GeneralRange,
		cfg.AlumniRange,
		cfg.DriveAPIKey,
		cfg.PhotoFolderID,
		int64(cfg.SyncInterval/time.Second),
		now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save sync_config: %w", err)
	}
	return nil
}

// MarkSynced records the time of the last successful sync.
// PRE: none
// POST: last_sync_at = at; the row is created with defaults if missing
func (s *SQLiteStore) MarkSynced(ctx context.Context, at time.Time) error {
	ts := at.UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_config (id, last_sync_at, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_sync_at=excluded.last_sync_at
	`, ts, ts)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
