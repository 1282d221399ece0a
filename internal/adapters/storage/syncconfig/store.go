package syncconfig

import (
	"context"
	"errors"
	"time"

	domain "sigsite/internal/domain/syncconfig"
)

// ErrNotFound is returned by Get before any configuration has been saved.
var ErrNotFound = errors.New("sync config not found")

// Store persists the single sync configuration row.
type Store interface {
	Get(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, cfg domain.Config, now time.Time) error
	MarkSynced(ctx context.Context, at time.Time) error
}
