package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	"sigsite/internal/domain/syncconfig"
)

// ConfigureSyncInput carries the submitted admin form.
// A blank API key keeps the stored one unless the matching Clear flag is set.
type ConfigureSyncInput struct {
	Config         syncconfig.Config
	ClearSheetsKey bool
	ClearDriveKey  bool
}

// ConfigureSyncDeps holds dependencies for ExecuteConfigureSync.
type ConfigureSyncDeps struct {
	ConfigStore syncconfigStore.Store
	Now         func() time.Time
}

// ExecuteConfigureSync validates and persists new adapter configuration.
// PRE: deps.ConfigStore is non-nil
// POST: Returns the saved configuration or a syncconfig validation error
// INVARIANT: last_sync_at is untouched
func ExecuteConfigureSync(ctx context.Context, input ConfigureSyncInput, deps ConfigureSyncDeps) (syncconfig.Config, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	current, err := deps.ConfigStore.Get(ctx)
	if err != nil && !errors.Is(err, syncconfigStore.ErrNotFound) {
		return syncconfig.Config{}, err
	}

	cfg := input.Config
	cfg.Normalize()
	if cfg.SheetsAPIKey == "" && !input.ClearSheetsKey {
		cfg.SheetsAPIKey = current.Config.SheetsAPIKey
	}
	if cfg.DriveAPIKey == "" && !input.ClearDriveKey {
		cfg.DriveAPIKey = current.Config.DriveAPIKey
	}
	if err := cfg.Validate(); err != nil {
		return syncconfig.Config{}, err
	}
	if err := deps.ConfigStore.Save(ctx, cfg, now()); err != nil {
		return syncconfig.Config{}, err
	}

	slog.Info("sync_config_saved",
		"remote", cfg.RemoteConfigured(),
		"photos", cfg.PhotosConfigured(),
		"interval_min", int(cfg.Interval()/time.Minute),
	)
	return cfg, nil
}

// SeedSyncConfig stores cfg when no configuration exists yet.
// POST: Returns true when cfg was written
func SeedSyncConfig(ctx context.Context, cfg syncconfig.Config, deps ConfigureSyncDeps) (bool, error) {
	_, err := deps.ConfigStore.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, syncconfigStore.ErrNotFound) {
		return false, err
	}
	if _, err := ExecuteConfigureSync(ctx, ConfigureSyncInput{Config: cfg}, deps); err != nil {
		return false, err
	}
	return true, nil
}
