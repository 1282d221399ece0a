package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	web "sigsite/internal/adapters/http"
	"sigsite/internal/adapters/http/middleware"
	"sigsite/internal/adapters/source"
	"sigsite/internal/adapters/storage"
	"sigsite/internal/app"
	"sigsite/internal/application/orchestrators"
	"sigsite/internal/config"
	"sigsite/internal/domain/syncrun"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(envOrDefault("SIGSITE_CONFIG", "sigsite.yaml"))
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	slog.SetDefault(cfg.NewLogger(os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer a.Close()

	// Restores the cached directory before any network call, then runs the check loop.
	syncer := orchestrators.NewDirectorySyncer(a.SyncDeps(), orchestrators.SyncerConfig{
		CheckInterval: cfg.CheckInterval(),
		SyncOnStart:   cfg.Directory.SyncOnStart,
	})
	if err := syncer.Start(ctx); err != nil {
		log.Fatalf("failed to start directory syncer: %v", err)
	}
	defer syncer.Stop()

	if cfg.Directory.WatchDocument {
		watcher, err := source.NewDocumentWatcher(cfg.Directory.Document, source.DefaultDebounce, func() {
			state, err := a.ConfigStore.Get(ctx)
			if err == nil && state.Config.RemoteConfigured() {
				return
			}
			syncer.Trigger(syncrun.TriggerDocument)
		})
		if err != nil {
			slog.Warn("document_watch_disabled", "error", err)
		} else {
			go watcher.Run(ctx)
			defer func() { <-watcher.Done() }()
			slog.Info("document_watch_enabled", "path", cfg.Directory.Document)
		}
	}

	csrfKey, _ := cfg.CSRFKeyBytes()
	if csrfKey == nil {
		slog.Warn("csrf_key_random", "reason", "SIGSITE_CSRF_KEY is not set; admin forms won't survive a restart")
	}
	var limiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, time.Second)
		defer limiter.Close()
	}
	if cfg.Admin.PasswordHash == "" {
		slog.Warn("admin_disabled", "reason", "SIGSITE_ADMIN_PASSWORD_HASH is not set")
	}

	handler := web.NewMux(web.Deps{
		Surface:     a.Surface,
		ConfigStore: a.ConfigStore,
		RunStore:    a.RunStore,
		Syncer:      syncer,
		Perf:        a.Perf,
		Admin: middleware.AdminCredentials{
			Username:     cfg.Admin.Username,
			PasswordHash: []byte(cfg.Admin.PasswordHash),
		},
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.IsProduction(),
		TrustedOrigins: cfg.TrustedOrigins,
		RateLimiter:    limiter,
		SlowRequest:    cfg.SlowRequestThreshold(),
		PhotoDir:       cfg.PhotoDir,
		BannerWindow:   cfg.BannerWindow(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server_starting",
		"version", version,
		"addr", cfg.Addr,
		"env", cfg.Env,
		"schema", storage.LatestSchemaVersion(),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
	slog.Info("server_stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
