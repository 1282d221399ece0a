package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	"sigsite/internal/domain/syncrun"
)

// DefaultCheckInterval is how often the syncer checks whether a cycle is due.
const DefaultCheckInterval = 5 * time.Minute

var (
	ErrSyncInProgress = errors.New("a directory sync is already running")
	ErrSyncerStarted  = errors.New("directory syncer already started")
)

// SyncerConfig configures the background loop.
type SyncerConfig struct {
	CheckInterval time.Duration
	// SyncOnStart runs a cycle right after the cache is restored when one is due.
	SyncOnStart bool
}

// DirectorySyncer owns the periodic sync loop and serialises cycles.
type DirectorySyncer struct {
	deps SyncDirectoryDeps
	cfg  SyncerConfig

	inFlight atomic.Bool

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewDirectorySyncer creates a stopped syncer.
// PRE: deps satisfies ExecuteSyncDirectory's preconditions
func NewDirectorySyncer(deps SyncDirectoryDeps, cfg SyncerConfig) *DirectorySyncer {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultCheckInterval
	}
	return &DirectorySyncer{deps: deps, cfg: cfg}
}

// Start restores the cached directory and launches the check loop.
// PRE: Start has not been called
// POST: The cached directory is on the surface before any network call is made
func (s *DirectorySyncer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSyncerStarted
	}

	if _, err := ExecuteRestoreDirectory(ctx, RestoreDirectoryDeps{CacheStore: s.deps.CacheStore, Surface: s.deps.Surface}); err != nil {
		slog.Warn("directory_restore_failed", "error", err)
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop cancels the loop and any in-flight cycle and waits for them to exit.
func (s *DirectorySyncer) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
	slog.Info("directory_syncer_stopped")
}

// SyncNow runs a cycle synchronously.
// POST: Returns ErrSyncInProgress without running when another cycle is in flight
func (s *DirectorySyncer) SyncNow(ctx context.Context, trigger string) (SyncDirectoryResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Info("directory_sync_skipped", "trigger", trigger, "reason", "in_flight")
		return SyncDirectoryResult{}, ErrSyncInProgress
	}
	defer s.inFlight.Store(false)
	return ExecuteSyncDirectory(ctx, SyncDirectoryInput{Trigger: trigger}, s.deps)
}

// Trigger starts a cycle in the background under the syncer's lifetime.
// POST: Returns false when the syncer is stopped or a cycle is already running
func (s *DirectorySyncer) Trigger(trigger string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.inFlight.Load() {
		return false
	}
	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.SyncNow(ctx, trigger)
	}()
	return true
}

// InFlight reports whether a cycle is running.
func (s *DirectorySyncer) InFlight() bool {
	return s.inFlight.Load()
}

func (s *DirectorySyncer) loop() {
	defer s.wg.Done()
	ctx := s.ctx

	if s.cfg.SyncOnStart {
		s.runIfDue(ctx, syncrun.TriggerStartup)
	}

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runIfDue(ctx, syncrun.TriggerSchedule)
		}
	}
}

func (s *DirectorySyncer) runIfDue(ctx context.Context, trigger string) {
	state, err := s.deps.ConfigStore.Get(ctx)
	if err != nil && !errors.Is(err, syncconfigStore.ErrNotFound) {
		slog.Error("directory_sync_check_failed", "error", err)
		return
	}
	if !state.SyncDue(s.deps.now()) {
		return
	}
	s.SyncNow(ctx, trigger)
}
