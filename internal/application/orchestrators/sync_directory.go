package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sigsite/internal/adapters/email"
	"sigsite/internal/adapters/http/perf"
	"sigsite/internal/adapters/source"
	"sigsite/internal/adapters/storage/directorycache"
	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	syncrunStore "sigsite/internal/adapters/storage/syncrun"
	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
	"sigsite/internal/domain/syncrun"
)

// SourceSelector picks the authoritative source for a configuration.
type SourceSelector interface {
	Select(ctx context.Context, cfg syncconfig.Config) (source.Source, error)
}

// DirectorySurface is the display surface a cycle renders into.
type DirectorySurface interface {
	Render(c directory.Category, records []directory.Record) bool
	Directory() directory.Directory
}

// SyncDirectoryInput carries the cycle trigger.
type SyncDirectoryInput struct {
	Trigger string
}

// SyncDirectoryResult describes a finished cycle.
type SyncDirectoryResult struct {
	Run      syncrun.Run
	Rendered []directory.Category
}

// SyncDirectoryDeps holds dependencies for ExecuteSyncDirectory.
type SyncDirectoryDeps struct {
	ConfigStore syncconfigStore.Store
	CacheStore  directorycache.Store
	RunStore    syncrunStore.Store
	Sources     SourceSelector
	Surface     DirectorySurface
	Perf        *perf.Collector
	Notifier    email.Sender
	NotifyTo    []string
	GenerateID  func() string
	Now         func() time.Time
}

func (d SyncDirectoryDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ExecuteSyncDirectory runs one fetch-normalize-render cycle.
// PRE: deps.Sources, deps.Surface, deps.ConfigStore and deps.GenerateID are non-nil
// POST: Fetched categories are re-rendered and cached, the run is recorded, failures are notified
// INVARIANT: A failed cycle never touches the surface; a failed category keeps its prior cards
func ExecuteSyncDirectory(ctx context.Context, input SyncDirectoryInput, deps SyncDirectoryDeps) (SyncDirectoryResult, error) {
	run := syncrun.Run{
		ID:        deps.GenerateID(),
		Trigger:   input.Trigger,
		StartedAt: deps.now(),
	}

	state, err := deps.ConfigStore.Get(ctx)
	if err != nil && !errors.Is(err, syncconfigStore.ErrNotFound) {
		return finishFailed(ctx, run, fmt.Errorf("load sync config: %w", err), deps)
	}

	src, err := deps.Sources.Select(ctx, state.Config)
	if err != nil {
		return finishFailed(ctx, run, err, deps)
	}
	run.Source = src.Name()

	res, err := src.Load(ctx)
	if err != nil {
		return finishFailed(ctx, run, err, deps)
	}

	var rendered []directory.Category
	for _, c := range directory.Categories {
		if !res.Fetched[c] {
			continue
		}
		if deps.Surface.Render(c, res.Directory.Records(c)) {
			rendered = append(rendered, c)
		}
	}

	shown := deps.Surface.Directory()
	if deps.CacheStore != nil {
		if err := deps.CacheStore.Save(ctx, shown); err != nil {
			slog.Error("directory_cache_save_failed", "run_id", run.ID, "error", err)
		}
	}

	run.FinishedAt = deps.now()
	if err := deps.ConfigStore.MarkSynced(ctx, run.FinishedAt); err != nil {
		slog.Error("directory_mark_synced_failed", "run_id", run.ID, "error", err)
	}

	run.Warnings = res.Warnings
	run.Status = syncrun.StatusSuccess
	if len(run.Warnings) > 0 {
		run.Status = syncrun.StatusPartial
	}
	run.LeadershipCount = len(shown.Leadership)
	run.GeneralCount = len(shown.General)
	run.AlumniCount = len(shown.Alumni)

	recordRun(ctx, run, deps)
	slog.Info("directory_sync_complete",
		"run_id", run.ID,
		"trigger", run.Trigger,
		"source", run.Source,
		"status", run.Status,
		"leadership", run.LeadershipCount,
		"general", run.GeneralCount,
		"alumni", run.AlumniCount,
		"warnings", len(run.Warnings),
		"duration_ms", run.Duration().Milliseconds(),
	)
	return SyncDirectoryResult{Run: run, Rendered: rendered}, nil
}

func finishFailed(ctx context.Context, run syncrun.Run, cause error, deps SyncDirectoryDeps) (SyncDirectoryResult, error) {
	run.FinishedAt = deps.now()
	run.Status = syncrun.StatusFailed
	run.Error = cause.Error()
	recordRun(ctx, run, deps)
	slog.Error("directory_sync_failed", "run_id", run.ID, "trigger", run.Trigger, "source", run.Source, "error", cause)
	notifyFailure(ctx, run, deps)
	return SyncDirectoryResult{Run: run}, cause
}

func recordRun(ctx context.Context, run syncrun.Run, deps SyncDirectoryDeps) {
	if deps.RunStore != nil {
		if err := deps.RunStore.Save(ctx, run); err != nil {
			slog.Error("sync_run_save_failed", "run_id", run.ID, "error", err)
		}
	}
	name := run.Source
	if name == "" {
		name = "unselected"
	}
	deps.Perf.Record(perf.Entry{
		Kind:       perf.KindSync,
		Path:       name + " " + run.Status,
		DurationMs: float64(run.Duration().Microseconds()) / 1000.0,
		Timestamp:  run.StartedAt,
	})
}

func notifyFailure(ctx context.Context, run syncrun.Run, deps SyncDirectoryDeps) {
	if deps.Notifier == nil || len(deps.NotifyTo) == 0 {
		return
	}
	req := SyncFailureEmail(run, deps.NotifyTo)
	if _, err := deps.Notifier.Send(ctx, req); err != nil {
		slog.Error("sync_failure_notify_failed", "run_id", run.ID, "error", err)
	}
}

// SyncFailureEmail composes the operator notice for a failed cycle.
func SyncFailureEmail(run syncrun.Run, to []string) email.SendRequest {
	var b strings.Builder
	fmt.Fprintf(&b, "The member directory sync failed and the site is still showing the previous data.\n\n")
	fmt.Fprintf(&b, "Run:     %s\n", run.ID)
	fmt.Fprintf(&b, "Trigger: %s\n", run.Trigger)
	if run.Source != "" {
		fmt.Fprintf(&b, "Source:  %s\n", run.Source)
	}
	fmt.Fprintf(&b, "Started: %s\n", run.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Error:   %s\n", run.Error)
	return email.SendRequest{
		To:      to,
		Subject: "Member directory sync failed",
		Text:    b.String(),
	}
}
