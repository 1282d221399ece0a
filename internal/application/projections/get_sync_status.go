package projections

import (
	"context"
	"errors"
	"time"

	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	"sigsite/internal/domain/syncconfig"
	"sigsite/internal/domain/syncrun"
)

// DefaultBannerWindow is how long the last cycle's banner stays visible.
const DefaultBannerWindow = 5 * time.Minute

// SyncConfigReader reads the persisted sync configuration.
type SyncConfigReader interface {
	Get(ctx context.Context) (syncconfig.State, error)
}

// SyncRunReader reads the sync cycle log.
type SyncRunReader interface {
	Latest(ctx context.Context) (syncrun.Run, bool, error)
	List(ctx context.Context, limit int) ([]syncrun.Run, error)
}

// SyncStatusQuery carries query parameters.
type SyncStatusQuery struct {
	RecentLimit int
}

// SyncStatus carries the query result.
type SyncStatus struct {
	Config         syncconfig.Config
	RemoteActive   bool
	PhotosActive   bool
	HasSheetsKey   bool
	HasDriveKey    bool
	LastSyncAt     time.Time
	NextSyncDue    time.Time
	LastRun        *syncrun.Run
	Banner         *syncrun.Banner
	RecentRuns     []syncrun.Run
	IntervalMinute int
}

// SyncStatusDeps holds dependencies for QuerySyncStatus.
type SyncStatusDeps struct {
	Config       SyncConfigReader
	Runs         SyncRunReader
	Now          func() time.Time
	BannerWindow time.Duration
}

// QuerySyncStatus summarises configuration, the last cycle and its banner.
// PRE: deps.Config and deps.Runs are non-nil
// POST: Banner is set only when the last run finished within the banner window
// INVARIANT: API keys are reported as present/absent, never returned in Config
func QuerySyncStatus(ctx context.Context, query SyncStatusQuery, deps SyncStatusDeps) (SyncStatus, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	window := deps.BannerWindow
	if window <= 0 {
		window = DefaultBannerWindow
	}

	state, err := deps.Config.Get(ctx)
	if err != nil && !errors.Is(err, syncconfigStore.ErrNotFound) {
		return SyncStatus{}, err
	}

	cfg := state.Config
	status := SyncStatus{
		RemoteActive:   cfg.RemoteConfigured(),
		PhotosActive:   cfg.PhotosConfigured(),
		HasSheetsKey:   cfg.SheetsAPIKey != "",
		HasDriveKey:    cfg.DriveAPIKey != "",
		LastSyncAt:     state.LastSyncAt,
		IntervalMinute: int(cfg.Interval() / time.Minute),
	}
	cfg.SheetsAPIKey = ""
	cfg.DriveAPIKey = ""
	status.Config = cfg
	if !state.LastSyncAt.IsZero() {
		status.NextSyncDue = state.LastSyncAt.Add(cfg.Interval())
	}

	last, ok, err := deps.Runs.Latest(ctx)
	if err != nil {
		return SyncStatus{}, err
	}
	if ok {
		status.LastRun = &last
		if !last.FinishedAt.IsZero() && now().Sub(last.FinishedAt) <= window {
			b := last.Banner()
			status.Banner = &b
		}
	}

	if query.RecentLimit > 0 {
		runs, err := deps.Runs.List(ctx, query.RecentLimit)
		if err != nil {
			return SyncStatus{}, err
		}
		status.RecentRuns = runs
	}
	return status, nil
}
