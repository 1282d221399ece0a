package syncrun

import (
	"context"

	domain "sigsite/internal/domain/syncrun"
)

// Store persists the sync cycle log.
type Store interface {
	Save(ctx context.Context, run domain.Run) error
	Latest(ctx context.Context) (domain.Run, bool, error)
	List(ctx context.Context, limit int) ([]domain.Run, error)
	ListPage(ctx context.Context, offset, limit int) ([]domain.Run, error)
	Count(ctx context.Context) (int, error)
}
