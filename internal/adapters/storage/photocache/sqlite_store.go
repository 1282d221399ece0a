package photocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"sigsite/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new photo cache store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the cached URL for filename.
// POST: ok is false when the filename has never been resolved
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Get(ctx context.Context, filename string) (string, bool, error) {
	var url string
	err := s.db.QueryRowContext(ctx, `SELECT url FROM photo_cache WHERE filename = ?`, filename).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get photo_cache: %w", err)
	}
	return url, true, nil
}

// Put stores or refreshes a resolved URL.
// PRE: filename and url are non-empty
func (s *SQLiteStore) Put(ctx context.Context, filename, url string, at time.Time) error {
	if filename == "" || url == "" {
		return errors.New("photo cache entries need a filename and url")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO photo_cache (filename, url, resolved_at) VALUES (?, ?, ?)
		ON CONFLICT(filename) DO UPDATE SET url=excluded.url, resolved_at=excluded.resolved_at
	`, filename, url, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("put photo_cache: %w", err)
	}
	return nil
}

// All returns every cached lookup, used to warm the in-memory cache at startup.
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT filename, url FROM photo_cache`)
	if err != nil {
		return nil, fmt.Errorf("list photo_cache: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var filename, url string
		if err := rows.Scan(&filename, &url); err != nil {
			return nil, err
		}
		out[filename] = url
	}
	return out, rows.Err()
}
