package orchestrators

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"sigsite/internal/adapters/source"
	"sigsite/internal/domain/directory"
)

// ExportFilename is the suggested name for a directory backup.
const ExportFilename = "members-backup.json"

// DirectoryLoader supplies the directory to export.
type DirectoryLoader interface {
	Load(ctx context.Context) (directory.Directory, error)
}

// ExportDirectoryInput carries the destination.
type ExportDirectoryInput struct {
	W io.Writer
}

// ExportDirectoryResult reports what was written.
type ExportDirectoryResult struct {
	Leadership int
	General    int
	Alumni     int
}

// ExportDirectoryDeps holds dependencies for ExecuteExportDirectory.
type ExportDirectoryDeps struct {
	Directory DirectoryLoader
}

// ExecuteExportDirectory writes the directory in the static document format.
// PRE: input.W is non-nil
// POST: The output can be loaded back with source.LoadFromDocument
func ExecuteExportDirectory(ctx context.Context, input ExportDirectoryInput, deps ExportDirectoryDeps) (ExportDirectoryResult, error) {
	d, err := deps.Directory.Load(ctx)
	if err != nil {
		return ExportDirectoryResult{}, fmt.Errorf("load directory: %w", err)
	}
	enc := json.NewEncoder(input.W)
	enc.SetIndent("", "  ")
	if err := enc.Encode(source.NewDocument(d)); err != nil {
		return ExportDirectoryResult{}, fmt.Errorf("encode directory: %w", err)
	}
	return ExportDirectoryResult{
		Leadership: len(d.Leadership),
		General:    len(d.General),
		Alumni:     len(d.Alumni),
	}, nil
}
