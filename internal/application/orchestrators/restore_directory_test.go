package orchestrators

import (
	"context"
	"testing"

	"sigsite/internal/adapters/render"
	"sigsite/internal/domain/directory"
)

func TestExecuteRestoreDirectory(t *testing.T) {
	cache := &mockCacheStore{d: directory.Directory{
		Leadership: []directory.Record{{Name: "Ada", Category: directory.CategoryLeadership}},
		General: []directory.Record{
			{Name: "Bo", Category: directory.CategoryGeneral},
			{Name: "Cy", Category: directory.CategoryGeneral},
		},
	}}
	surface := render.NewDirectorySurface()

	n, err := ExecuteRestoreDirectory(context.Background(), RestoreDirectoryDeps{CacheStore: cache, Surface: surface})
	if err != nil {
		t.Fatalf("ExecuteRestoreDirectory: %v", err)
	}
	if n != 3 {
		t.Errorf("restored %d records, want 3", n)
	}
	if got := surface.Directory(); len(got.Leadership) != 1 || len(got.General) != 2 || len(got.Alumni) != 0 {
		t.Errorf("surface = %+v", got)
	}
}

func TestExecuteRestoreDirectory_EmptyCacheRendersNothing(t *testing.T) {
	surface := render.NewDirectorySurface()
	surface.RenderDirectory(directory.Directory{
		General: []directory.Record{{Name: "Kept", Category: directory.CategoryGeneral}},
	}, nil)

	n, err := ExecuteRestoreDirectory(context.Background(), RestoreDirectoryDeps{CacheStore: &mockCacheStore{}, Surface: surface})
	if err != nil || n != 0 {
		t.Fatalf("ExecuteRestoreDirectory = %d, %v; want 0, nil", n, err)
	}
	if got := surface.Directory(); len(got.General) != 1 {
		t.Errorf("empty cache replaced the surface: %+v", got)
	}
}

func TestExecuteRestoreDirectory_NoCache(t *testing.T) {
	n, err := ExecuteRestoreDirectory(context.Background(), RestoreDirectoryDeps{Surface: render.NewDirectorySurface()})
	if err != nil || n != 0 {
		t.Errorf("ExecuteRestoreDirectory without cache = %d, %v; want 0, nil", n, err)
	}
}
