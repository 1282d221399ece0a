package directorycache

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"sigsite/internal/adapters/storage/storagetest"
	"sigsite/internal/domain/directory"
)

func sampleDirectory() directory.Directory {
	return directory.Directory{
		Leadership: []directory.Record{
			{Name: "Ada", Category: directory.CategoryLeadership, RoleOrTitle: "President", Affiliation: "CS", Period: "Senior", PhotoRef: "a.jpg", ContactLink: "#"},
			{Name: "Grace", Category: directory.CategoryLeadership, RoleOrTitle: "VP", PhotoRef: directory.PlaceholderPhoto, ContactLink: "https://linkedin.com/in/grace"},
		},
		General: []directory.Record{
			{Name: "Linus", Category: directory.CategoryGeneral, InterestTag: "Kernels", FilterLabel: "systems", PhotoRef: directory.PlaceholderPhoto, ContactLink: "#", Bio: "Likes **C**."},
		},
	}
}

func TestSQLiteStore_LoadEmpty(t *testing.T) {
	store := NewSQLiteStore(storagetest.Open(t))
	d, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestSQLiteStore_SaveLoadPreservesOrder(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(storagetest.Open(t))
	want := sampleDirectory()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStore_SaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(storagetest.Open(t))
	if err := store.Save(ctx, sampleDirectory()); err != nil {
		t.Fatal(err)
	}
	next := directory.Directory{
		Alumni: []directory.Record{{Name: "Barbara", Category: directory.CategoryAlumni, PhotoRef: "p", ContactLink: "#"}},
	}
	if err := store.Save(ctx, next); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(next, got); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}
