package syncrun

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sigsite/internal/adapters/storage"
	domain "sigsite/internal/domain/syncrun"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new sync run store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectRuns = `
	SELECT id, triggered_by, source, status, started_at, finished_at,
		leadership_count, general_count, alumni_count, warnings, error
	FROM sync_run
`

// Save upserts a run.
// PRE: run passes Validate
// POST: The run is persisted
func (s *SQLiteStore) Save(ctx context.Context, run domain.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	warnings := run.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	encoded, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("encode warnings: %w", err)
	}
	var finished any
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.UTC().Format(time.RFC3339Nano)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sync_run (
			id, triggered_by, source, status, started_at, finished_at,
			leadership_count, general_count, alumni_count, warnings, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			finished_at=excluded.finished_at,
			leadership_count=excluded.leadership_count,
			general_count=excluded.general_count,
			alumni_count=excluded.alumni_count,
			warnings=excluded.warnings,
			error=excluded.error
	`,
		run.ID, run.Trigger, run.Source, run.Status,
		run.StartedAt.UTC().Format(time.RFC3339Nano), finished,
		run.LeadershipCount, run.GeneralCount, run.AlumniCount,
		string(encoded), run.Error,
	)
	if err != nil {
		return fmt.Errorf("save sync_run: %w", err)
	}
	return nil
}

// Latest returns the most recently started run.
// POST: ok is false when no run has been recorded
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Latest(ctx context.Context) (domain.Run, bool, error) {
	row := s.db.QueryRowContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT 1`)
	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Run{}, false, nil
	}
	if err != nil {
		return domain.Run{}, false, err
	}
	return run, true, nil
}

// List returns up to limit runs, newest first.
// PRE: limit > 0 (values <= 0 select 20)
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	return s.ListPage(ctx, 0, limit)
}

// ListPage returns up to limit runs after skipping offset, newest first.
func (s *SQLiteStore) ListPage(ctx context.Context, offset, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+` ORDER BY started_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sync_run: %w", err)
	}
	defer rows.Close()

	out := []domain.Run{}
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Count returns the number of logged runs.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_run`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sync_run: %w", err)
	}
	return n, nil
}

func scanRun(scan func(dest ...any) error) (domain.Run, error) {
	var run domain.Run
	var started, warnings string
	var finished sql.NullString
	if err := scan(
		&run.ID,
		&run.Trigger,
		&run.Source,
		&run.Status,
		&started,
		&finished,
		&run.LeadershipCount,
		&run.GeneralCount,
		&run.AlumniCount,
		&warnings,
		&run.Error,
	); err != nil {
		return domain.Run{}, err
	}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}
	if err := json.Unmarshal([]byte(warnings), &run.Warnings); err != nil {
		return domain.Run{}, fmt.Errorf("decode warnings: %w", err)
	}
	return run, nil
}
