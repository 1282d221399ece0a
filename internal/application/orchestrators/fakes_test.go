package orchestrators

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"sigsite/internal/adapters/email"
	"sigsite/internal/adapters/source"
	syncconfigStore "sigsite/internal/adapters/storage/syncconfig"
	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
	"sigsite/internal/domain/syncrun"
)

type mockConfigStore struct {
	mu    sync.Mutex
	state syncconfig.State
	found bool
}

func (m *mockConfigStore) Get(ctx context.Context) (syncconfig.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.found {
		return syncconfig.State{}, fmt.Errorf("get: %w", syncconfigStore.ErrNotFound)
	}
	return m.state, nil
}

func (m *mockConfigStore) Save(ctx context.Context, cfg syncconfig.Config, now time.Time) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Config = cfg
	m.state.UpdatedAt = now
	m.found = true
	return nil
}

func (m *mockConfigStore) MarkSynced(ctx context.Context, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.LastSyncAt = at
	m.found = true
	return nil
}

func (m *mockConfigStore) lastSync() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastSyncAt
}

type mockCacheStore struct {
	mu    sync.Mutex
	d     directory.Directory
	saves int
}

func (m *mockCacheStore) Load(ctx context.Context) (directory.Directory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.d, nil
}

func (m *mockCacheStore) Save(ctx context.Context, d directory.Directory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.d = d
	m.saves++
	return nil
}

type mockRunStore struct {
	mu   sync.Mutex
	runs []syncrun.Run
}

func (m *mockRunStore) Save(ctx context.Context, run syncrun.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockRunStore) Latest(ctx context.Context) (syncrun.Run, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return syncrun.Run{}, false, nil
	}
	return m.runs[len(m.runs)-1], true, nil
}

func (m *mockRunStore) List(ctx context.Context, limit int) ([]syncrun.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]syncrun.Run, len(m.runs))
	copy(out, m.runs)
	return out, nil
}

func (m *mockRunStore) ListPage(ctx context.Context, offset, limit int) ([]syncrun.Run, error) {
	runs, _ := m.List(ctx, 0)
	if offset >= len(runs) {
		return []syncrun.Run{}, nil
	}
	runs = runs[offset:]
	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}

func (m *mockRunStore) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runs), nil
}

func (m *mockRunStore) all() []syncrun.Run {
	runs, _ := m.List(context.Background(), 0)
	return runs
}

type fakeSource struct {
	name  string
	res   source.Result
	err   error
	block chan struct{}
	calls atomic.Int32
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) (source.Result, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return source.Result{}, ctx.Err()
		}
	}
	return f.res, f.err
}

type fakeSelector struct {
	src source.Source
	err error
}

func (f fakeSelector) Select(ctx context.Context, cfg syncconfig.Config) (source.Source, error) {
	return f.src, f.err
}

type mockSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
}

func (m *mockSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "m"}, nil
}

func sequentialIDs() func() string {
	var n atomic.Int32
	return func() string { return fmt.Sprintf("run-%d", n.Add(1)) }
}
