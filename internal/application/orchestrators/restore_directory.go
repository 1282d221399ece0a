package orchestrators

import (
	"context"
	"log/slog"

	"sigsite/internal/adapters/storage/directorycache"
	"sigsite/internal/domain/directory"
)

// RestoreDirectoryDeps holds dependencies for ExecuteRestoreDirectory.
type RestoreDirectoryDeps struct {
	CacheStore directorycache.Store
	Surface    DirectorySurface
}

// ExecuteRestoreDirectory renders the last cached directory.
// PRE: none
// POST: Returns the number of records shown; an empty cache renders nothing
// INVARIANT: Makes no network calls
func ExecuteRestoreDirectory(ctx context.Context, deps RestoreDirectoryDeps) (int, error) {
	if deps.CacheStore == nil {
		return 0, nil
	}
	d, err := deps.CacheStore.Load(ctx)
	if err != nil {
		return 0, err
	}
	if d.Len() == 0 {
		return 0, nil
	}
	for _, c := range directory.Categories {
		deps.Surface.Render(c, d.Records(c))
	}
	slog.Info("directory_restored", "records", d.Len())
	return d.Len(), nil
}
