package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events an editor emits for one save.
const DefaultDebounce = 500 * time.Millisecond

// DocumentWatcher calls OnChange after the static document is written, created or renamed into place.
type DocumentWatcher struct {
	path     string
	debounce time.Duration
	onChange func()

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	doneCh  chan struct{}
}

// NewDocumentWatcher watches the directory containing path so atomic replacements are seen.
// PRE: onChange is non-nil; debounce <= 0 selects DefaultDebounce
func NewDocumentWatcher(path string, debounce time.Duration, onChange func()) (*DocumentWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &DocumentWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
		doneCh:   make(chan struct{}),
	}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
func (d *DocumentWatcher) Run(ctx context.Context) {
	defer close(d.doneCh)
	defer d.watcher.Close()
	defer d.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != d.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("document_changed", "path", ev.Name, "op", ev.Op.String())
			d.schedule()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("document_watch_error", "error", err)
		}
	}
}

// Done is closed once Run has returned.
func (d *DocumentWatcher) Done() <-chan struct{} {
	return d.doneCh
}

func (d *DocumentWatcher) schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.debounce, d.onChange)
}

func (d *DocumentWatcher) stopTimer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
