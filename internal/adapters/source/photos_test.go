package source

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigsite/internal/adapters/storage/photocache"
	"sigsite/internal/adapters/storage/storagetest"
	"sigsite/internal/domain/directory"
	"sigsite/internal/domain/syncconfig"
)

func TestResolvePhoto_MissReturnsPlaceholder(t *testing.T) {
	f, opts := newFakeGoogle(t)
	ctx := context.Background()
	r, err := NewPhotoResolver(ctx, remoteConfig(), NewPhotoCache(nil), opts...)
	require.NoError(t, err)

	assert.Equal(t, directory.PlaceholderPhoto, r.ResolvePhoto(ctx, "b.jpg"))
	assert.Equal(t, directory.PlaceholderPhoto, r.ResolvePhoto(ctx, "b.jpg"), "deterministic on repeat")
	assert.Equal(t, 2, f.driveCallCount(), "misses are not cached")
}

func TestResolvePhoto_HitIsCachedAndPersisted(t *testing.T) {
	f, opts := newFakeGoogle(t)
	f.files["ada.jpg"] = "id-ada"
	store := photocache.NewSQLiteStore(storagetest.Open(t))

	ctx := context.Background()
	r, err := NewPhotoResolver(ctx, remoteConfig(), NewPhotoCache(store), opts...)
	require.NoError(t, err)

	want := "https://drive.google.com/uc?id=id-ada&export=download"
	assert.Equal(t, want, r.ResolvePhoto(ctx, "ada.jpg"))
	assert.Equal(t, want, r.ResolvePhoto(ctx, " ada.jpg "))
	assert.Equal(t, 1, f.driveCallCount())

	url, ok, err := store.Get(ctx, "ada.jpg")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, url)

	// A fresh cache warmed from the store answers without Drive.
	warm := NewPhotoCache(store)
	require.NoError(t, warm.Warm(ctx))
	offline, err := NewPhotoResolver(ctx, syncconfig.Config{}, warm)
	require.NoError(t, err)
	assert.Equal(t, want, offline.ResolvePhoto(ctx, "ada.jpg"))
}

func TestResolvePhoto_TransportErrorReturnsPlaceholder(t *testing.T) {
	f, opts := newFakeGoogle(t)
	f.driveStatus = http.StatusInternalServerError
	ctx := context.Background()
	r, err := NewPhotoResolver(ctx, remoteConfig(), NewPhotoCache(nil), opts...)
	require.NoError(t, err)

	assert.Equal(t, directory.PlaceholderPhoto, r.ResolvePhoto(ctx, "ada.jpg"))
}

func TestResolvePhoto_NotConfigured(t *testing.T) {
	ctx := context.Background()
	r, err := NewPhotoResolver(ctx, syncconfig.Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, directory.PlaceholderPhoto, r.ResolvePhoto(ctx, "ada.jpg"))
	assert.Equal(t, directory.PlaceholderPhoto, r.ResolvePhoto(ctx, ""))
}

func TestDriveQuery_EscapesQuotes(t *testing.T) {
	assert.Equal(t,
		`name = 'o\'brien.jpg' and 'folder' in parents and trashed = false`,
		driveQuery("o'brien.jpg", "folder"))
}
