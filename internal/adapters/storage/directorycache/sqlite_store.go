package directorycache

import (
	"context"
	"fmt"

	"sigsite/internal/adapters/storage"
	"sigsite/internal/domain/directory"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new directory cache store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns the cached directory with records in their original order.
// PRE: none
// POST: Returns an empty Directory when nothing is cached
// INVARIANT: Store state is not mutated
func (s *SQLiteStore) Load(ctx context.Context) (directory.Directory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, name, role_or_title, affiliation, period, interest_tag,
			photo_ref, contact_link, bio, filter_label
		FROM directory_record
		ORDER BY category, position
	`)
	if err != nil {
		return directory.Directory{}, fmt.Errorf("load directory: %w", err)
	}
	defer rows.Close()

	var d directory.Directory
	for rows.Next() {
		var r directory.Record
		var cat string
		if err := rows.Scan(
			&cat,
			&r.Name,
			&r.RoleOrTitle,
			&r.Affiliation,
			&r.Period,
			&r.InterestTag,
			&r.PhotoRef,
			&r.ContactLink,
			&r.Bio,
			&r.FilterLabel,
		); err != nil {
			return directory.Directory{}, fmt.Errorf("scan directory_record: %w", err)
		}
		c, err := directory.ParseCategory(cat)
		if err != nil {
			continue
		}
		r.Category = c
		d.Set(c, append(d.Records(c), r))
	}
	return d, rows.Err()
}

// Save replaces the whole cache with d.
// PRE: none
// POST: The cache holds exactly the records of d, positions following slice order
// INVARIANT: Replacement is atomic; readers see either the old or the new directory
func (s *SQLiteStore) Save(ctx context.Context, d directory.Directory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM directory_record`); err != nil {
		return fmt.Errorf("clear directory_record: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO directory_record (
			category, position, name, role_or_title, affiliation, period, interest_tag,
			photo_ref, contact_link, bio, filter_label
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare directory_record insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range directory.Categories {
		for i, r := range d.Records(c) {
			if _, err := stmt.ExecContext(ctx,
				string(c), i, r.Name, r.RoleOrTitle, r.Affiliation, r.Period, r.InterestTag,
				r.PhotoRef, r.ContactLink, r.Bio, r.FilterLabel,
			); err != nil {
				return fmt.Errorf("save directory_record %s/%d: %w", c, i, err)
			}
		}
	}
	return tx.Commit()
}
