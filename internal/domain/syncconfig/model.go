package syncconfig

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"sigsite/internal/domain/directory"
)

// Defaults for the remote spreadsheet ranges and the sync cadence.
const (
	DefaultLeadershipRange = "Executive Board"
	DefaultGeneralRange    = "General Members"
	DefaultAlumniRange     = "Alumni"
	DefaultSyncInterval    = 30 * time.Minute
	MinSyncInterval        = time.Minute
)

var (
	ErrInvalidSpreadsheetID = errors.New("spreadsheet id may only contain letters, digits, '-' and '_'")
	ErrInvalidFolderID      = errors.New("photo folder id may only contain letters, digits, '-' and '_'")
	ErrIntervalTooShort     = errors.New("sync interval must be at least one minute")
	ErrRangeTooLong         = errors.New("range names cannot exceed 100 characters")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// Config is the runtime-editable adapter configuration.
// A Config without SheetsAPIKey or SpreadsheetID is the valid "not configured" state.
type Config struct {
	SheetsAPIKey    string
	SpreadsheetID   string
	LeadershipRange string
	GeneralRange    string
	AlumniRange     string
	DriveAPIKey     string
	PhotoFolderID   string
	SyncInterval    time.Duration
}

// State is the persisted configuration plus sync bookkeeping.
type State struct {
	Config     Config
	LastSyncAt time.Time
	UpdatedAt  time.Time
}

// RemoteConfigured reports whether the spreadsheet upstream can be used.
// INVARIANT: Config is not mutated
func (c Config) RemoteConfigured() bool {
	return c.SheetsAPIKey != "" && c.SpreadsheetID != ""
}

// PhotosConfigured reports whether Drive photo lookup can be used.
// INVARIANT: Config is not mutated
func (c Config) PhotosConfigured() bool {
	return c.DriveAPIKey != "" && c.PhotoFolderID != ""
}

// RangeFor returns the sheet range name for a category, falling back to the defaults.
func (c Config) RangeFor(cat directory.Category) string {
	var name, def string
	switch cat {
	case directory.CategoryLeadership:
		name, def = c.LeadershipRange, DefaultLeadershipRange
	case directory.CategoryGeneral:
		name, def = c.GeneralRange, DefaultGeneralRange
	case directory.CategoryAlumni:
		name, def = c.AlumniRange, DefaultAlumniRange
	}
	if strings.TrimSpace(name) == "" {
		return def
	}
	return name
}

// Interval returns the sync interval, defaulting when unset.
func (c Config) Interval() time.Duration {
	if c.SyncInterval <= 0 {
		return DefaultSyncInterval
	}
	return c.SyncInterval
}

// Normalize trims every string field.
// POST: All string fields are trimmed
func (c *Config) Normalize() {
	c.SheetsAPIKey = strings.TrimSpace(c.SheetsAPIKey)
	c.SpreadsheetID = strings.TrimSpace(c.SpreadsheetID)
	c.LeadershipRange = strings.TrimSpace(c.LeadershipRange)
	c.GeneralRange = strings.TrimSpace(c.GeneralRange)
	c.AlumniRange = strings.TrimSpace(c.AlumniRange)
	c.DriveAPIKey = strings.TrimSpace(c.DriveAPIKey)
	c.PhotoFolderID = strings.TrimSpace(c.PhotoFolderID)
}

// Validate checks if the Config has valid data.
// PRE: Config struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Config) Validate() error {
	if !idPattern.MatchString(c.SpreadsheetID) {
		return ErrInvalidSpreadsheetID
	}
	if !idPattern.MatchString(c.PhotoFolderID) {
		return ErrInvalidFolderID
	}
	if c.SyncInterval != 0 && c.SyncInterval < MinSyncInterval {
		return ErrIntervalTooShort
	}
	for _, r := range []string{c.LeadershipRange, c.GeneralRange, c.AlumniRange} {
		if len(r) > 100 {
			return ErrRangeTooLong
		}
	}
	return nil
}

// SyncDue reports whether a new cycle should run at now.
// INVARIANT: State is not mutated
func (s State) SyncDue(now time.Time) bool {
	if s.LastSyncAt.IsZero() {
		return true
	}
	return now.Sub(s.LastSyncAt) >= s.Config.Interval()
}
