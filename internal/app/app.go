// Package app wires storage, sources and the render surface from process configuration.
// cmd/server and cmd/sigctl share it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sigsite/internal/adapters/email"
	"sigsite/internal/adapters/http/perf"
	"sigsite/internal/adapters/render"
	"sigsite/internal/adapters/source"
	"sigsite/internal/adapters/storage"
	"sigsite/internal/adapters/storage/directorycache"
	photocacheStore "sigsite/internal/adapters/storage/photocache"
	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	syncrunStore "sigsite/internal/adapters/storage/syncrun"
	"sigsite/internal/application/orchestrators"
	"sigsite/internal/config"
)

// App holds the process-wide instances built from Config.
type App struct {
	Config *config.Config
	DB     *storage.TimedDB
	Perf   *perf.Collector

	ConfigStore *syncconfigStore.SQLiteStore
	CacheStore  *directorycache.SQLiteStore
	RunStore    *syncrunStore.SQLiteStore
	Photos      *source.PhotoCache
	Surface     *render.Surface
	Notifier    email.Sender
}

// OpenDB opens, checks and migrates the SQLite database at path.
// POST: The schema is at storage.LatestSchemaVersion
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", storage.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.MigrateDB(db, path); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// New opens the database and builds every store, the photo cache and an empty surface.
// The stored sync configuration is seeded from cfg when none exists yet.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryThreshold())

	a := &App{
		Config:      cfg,
		DB:          timedDB,
		Perf:        collector,
		ConfigStore: syncconfigStore.NewSQLiteStore(timedDB),
		CacheStore:  directorycache.NewSQLiteStore(timedDB),
		RunStore:    syncrunStore.NewSQLiteStore(timedDB),
		Surface:     render.NewDirectorySurface(),
		Notifier:    newNotifier(cfg),
	}
	a.Photos = source.NewPhotoCache(photocacheStore.NewSQLiteStore(timedDB))
	if err := a.Photos.Warm(ctx); err != nil {
		slog.Warn("photo_cache_warm_failed", "error", err)
	}

	seeded, err := orchestrators.SeedSyncConfig(ctx, cfg.SeedSyncConfig(), orchestrators.ConfigureSyncDeps{ConfigStore: a.ConfigStore})
	if err != nil {
		timedDB.Close()
		return nil, fmt.Errorf("failed to seed sync config: %w", err)
	}
	if seeded {
		slog.Info("sync_config_seeded", "remote", cfg.SeedSyncConfig().RemoteConfigured())
	}
	return a, nil
}

func newNotifier(cfg *config.Config) email.Sender {
	if cfg.Email.ResendKey == "" {
		if cfg.IsProduction() && len(cfg.Email.NotifyTo) > 0 {
			slog.Warn("email_disabled", "reason", "SIGSITE_RESEND_KEY is not set")
		}
		return email.NewNoopSender()
	}
	return email.NewResendSender(cfg.Email.ResendKey, cfg.Email.From)
}

// Selector returns the source selector for the configured static document.
func (a *App) Selector() source.Selector {
	return source.Selector{DocumentPath: a.Config.Directory.Document, Photos: a.Photos}
}

// SyncDeps returns the dependencies of one sync cycle.
func (a *App) SyncDeps() orchestrators.SyncDirectoryDeps {
	return orchestrators.SyncDirectoryDeps{
		ConfigStore: a.ConfigStore,
		CacheStore:  a.CacheStore,
		RunStore:    a.RunStore,
		Sources:     a.Selector(),
		Surface:     a.Surface,
		Perf:        a.Perf,
		Notifier:    a.Notifier,
		NotifyTo:    a.Config.Email.NotifyTo,
		GenerateID:  uuid.NewString,
	}
}

// Restore renders the cached directory onto the surface.
func (a *App) Restore(ctx context.Context) (int, error) {
	return orchestrators.ExecuteRestoreDirectory(ctx, orchestrators.RestoreDirectoryDeps{
		CacheStore: a.CacheStore,
		Surface:    a.Surface,
	})
}

// Close closes the database.
func (a *App) Close() error {
	return a.DB.Close()
}
