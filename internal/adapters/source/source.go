// Package source loads member records from the configured upstream and maps them
// onto canonical directory records.
package source

import (
	"context"
	"errors"

	"google.golang.org/api/option"

	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
)

// Source names recorded in sync runs.
const (
	NameDocument = "document"
	NameSheets   = "sheets"
)

// Result is the outcome of one load.
// Fetched marks the categories whose data was retrieved (possibly empty); categories
// absent from Fetched failed and must not be re-rendered.
type Result struct {
	Directory directory.Directory
	Fetched   map[directory.Category]bool
	Warnings  []string
}

// Source is the single authoritative upstream for a sync cycle.
type Source interface {
	Name() string
	Load(ctx context.Context) (Result, error)
}

// Selector picks the authoritative Source for the current configuration.
type Selector struct {
	DocumentPath string
	Photos       *PhotoCache
	// ClientOptions are appended to every Google API client (tests point them at a fake server).
	ClientOptions []option.ClientOption
}

// Select returns the spreadsheet source when it is configured, otherwise the static document.
// PRE: cfg has been validated
// POST: Returns exactly one Source
func (s Selector) Select(ctx context.Context, cfg syncconfig.Config) (Source, error) {
	if !cfg.RemoteConfigured() {
		if s.DocumentPath == "" {
			return nil, errors.New("no member source configured")
		}
		return &DocumentSource{Path: s.DocumentPath}, nil
	}
	photos, err := NewPhotoResolver(ctx, cfg, s.Photos, s.ClientOptions...)
	if err != nil {
		return nil, err
	}
	return NewSheetsSource(ctx, cfg, photos, s.ClientOptions...)
}

func newResult() Result {
	return Result{Fetched: make(map[directory.Category]bool, len(directory.Categories))}
}
