package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"sigsite/internal/adapters/storage/photocache"
	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
)

// PhotoCache maps photo filenames to resolved URLs for the lifetime of the process,
// backed by an optional persistent store.
type PhotoCache struct {
	mu    sync.RWMutex
	urls  map[string]string
	store photocache.Store
	now   func() time.Time
}

// NewPhotoCache creates a cache. store may be nil.
func NewPhotoCache(store photocache.Store) *PhotoCache {
	return &PhotoCache{urls: make(map[string]string), store: store, now: time.Now}
}

// Warm loads every persisted lookup into memory.
func (c *PhotoCache) Warm(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	all, err := c.store.All(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	for k, v := range all {
		c.urls[k] = v
	}
	c.mu.Unlock()
	return nil
}

// Get returns the cached URL for filename.
func (c *PhotoCache) Get(filename string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	url, ok := c.urls[filename]
	return url, ok
}

// Put caches a resolved URL in memory and, best-effort, in the store.
func (c *PhotoCache) Put(ctx context.Context, filename, url string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.urls[filename] = url
	c.mu.Unlock()
	if c.store != nil {
		if err := c.store.Put(ctx, filename, url, c.now()); err != nil {
			slog.Warn("photo_cache_persist_failed", "filename", filename, "error", err)
		}
	}
}

// Len returns the number of cached lookups.
func (c *PhotoCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.urls)
}

// DriveDownloadURL is the public download link for a Drive file id.
func DriveDownloadURL(id string) string {
	return "https://drive.google.com/uc?id=" + id + "&export=download"
}

// PhotoResolver looks up member photos by filename inside the configured Drive folder.
type PhotoResolver struct {
	cache    *PhotoCache
	files    *drive.FilesService
	folderID string
}

// NewPhotoResolver creates a resolver. Without Drive configuration every lookup
// misses the network and falls back to the cache or the placeholder.
// PRE: cache may be nil
func NewPhotoResolver(ctx context.Context, cfg syncconfig.Config, cache *PhotoCache, opts ...option.ClientOption) (*PhotoResolver, error) {
	r := &PhotoResolver{cache: cache, folderID: cfg.PhotoFolderID}
	if !cfg.PhotosConfigured() {
		return r, nil
	}
	all := append([]option.ClientOption{option.WithAPIKey(cfg.DriveAPIKey)}, opts...)
	svc, err := drive.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	r.files = svc.Files
	return r, nil
}

// ResolvePhoto maps a filename hint onto a photo reference.
// PRE: none
// POST: Returns the cached or freshly resolved URL, otherwise directory.PlaceholderPhoto
// INVARIANT: Never fails; lookup errors are logged and degrade to the placeholder
func (r *PhotoResolver) ResolvePhoto(ctx context.Context, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return directory.PlaceholderPhoto
	}
	if url, ok := r.cache.Get(filename); ok {
		return url
	}
	if r.files == nil {
		return directory.PlaceholderPhoto
	}

	list, err := r.files.List().
		Q(driveQuery(filename, r.folderID)).
		Fields("files(id,name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		slog.Warn("photo_lookup_failed", "filename", filename, "error", err)
		return directory.PlaceholderPhoto
	}
	if len(list.Files) == 0 {
		slog.Warn("photo_not_found", "filename", filename)
		return directory.PlaceholderPhoto
	}

	url := DriveDownloadURL(list.Files[0].Id)
	r.cache.Put(ctx, filename, url)
	return url
}

func driveQuery(filename, folderID string) string {
	esc := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", esc.Replace(filename), esc.Replace(folderID))
}
