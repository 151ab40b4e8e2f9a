package fs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tesshy/catalyzer/pkg/core"
)

func testRepo(t *testing.T) (*Provider, core.PartitionRepository) {
	t.Helper()
	p := NewProvider(t.TempDir(), nil)
	ns := core.Namespace{Org: "contoso", Group: "data", User: "tesshy"}
	repo, err := p.Open(context.Background(), ns)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := repo.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return p, repo
}

func TestSaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	_, repo := testRepo(t)

	rec := &core.CatalogRecord{
		ID:        "r1",
		Title:     "data1.csv",
		Tags:      []string{"sample", "csv"},
		Locations: []string{"https://contoso.com/data1.csv"},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Body:      "A sample data set.\n",
	}
	rec.SyncProperties()

	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Title != rec.Title || got.Body != rec.Body {
		t.Errorf("record mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "sample" {
		t.Errorf("tags mismatch: %v", got.Tags)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("created_at mismatch: %v", got.CreatedAt)
	}
	// Typed view and raw view agree after a round trip.
	if got.Properties[core.KeyTitle] != "data1.csv" {
		t.Errorf("properties out of sync: %v", got.Properties)
	}

	if err := repo.Delete(ctx, "r1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Load(ctx, "r1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("want ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, "r1"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("want ErrNotFound on double delete, got %v", err)
	}
}

func TestLoadAllEmptyPartition(t *testing.T) {
	p := NewProvider(t.TempDir(), nil)
	repo, _ := p.Open(context.Background(), core.Namespace{Org: "a", Group: "b", User: "c"})

	// Partition directory does not exist yet: empty table, no error.
	recs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("want empty, got %d records", len(recs))
	}
}

func TestProviderList(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(t.TempDir(), nil)

	namespaces := []core.Namespace{
		{Org: "orgA", Group: "g", User: "u"},
		{Org: "orgB", Group: "g", User: "u"},
		{Org: "orgB", Group: "g2", User: "u2"},
	}
	for _, ns := range namespaces {
		repo, err := p.Open(ctx, ns)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if err := repo.Initialize(ctx); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
	}

	got, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != len(namespaces) {
		t.Fatalf("want %d namespaces, got %v", len(namespaces), got)
	}

	seen := make(map[string]bool)
	for _, ns := range got {
		seen[ns.String()] = true
	}
	for _, ns := range namespaces {
		if !seen[ns.String()] {
			t.Errorf("missing namespace %s", ns)
		}
	}
}
