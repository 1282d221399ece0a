package directorycache

import (
	"context"

	"sigsite/internal/domain/directory"
)

// Store persists the last synced directory so it can be shown before any network call.
type Store interface {
	Load(ctx context.Context) (directory.Directory, error)
	Save(ctx context.Context, d directory.Directory) error
}
