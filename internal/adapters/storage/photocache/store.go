package photocache

import (
	"context"
	"time"
)

// Store persists filename -> resolved photo URL lookups across restarts.
type Store interface {
	Get(ctx context.Context, filename string) (string, bool, error)
	Put(ctx context.Context, filename, url string, at time.Time) error
	All(ctx context.Context) (map[string]string, error)
}
