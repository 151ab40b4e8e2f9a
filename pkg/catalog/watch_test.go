package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tesshy/catalyzer/pkg/core"
	"github.com/tesshy/catalyzer/pkg/frontmatter"
)

func TestWatchPicksUpExternalWrite(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	s, err := Open(ctx, root, WithWatch(true))
	require.NoError(t, err)
	defer s.Close()

	// Seed the partition through the store so its directory exists and
	// is registered with the watcher.
	_, err = s.Create(ctx, testNS, core.CatalogRecord{Title: "seed"})
	require.NoError(t, err)

	// Simulate an out-of-band writer dropping a record file directly
	// into the partition directory.
	raw, err := frontmatter.Serialize(core.Properties{
		"title": "external",
		"tags":  []any{"outside"},
	}, "written behind the store's back\n")
	require.NoError(t, err)
	path := filepath.Join(root, testNS.Org, testNS.Group, testNS.User, "ext1.md")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	// The debounced rebuild must make the record visible to reads and
	// to both indexes.
	require.Eventually(t, func() bool {
		rec, err := s.Get(ctx, testNS, "ext1")
		return err == nil && rec.Title == "external"
	}, 5*time.Second, 50*time.Millisecond, "external record never became visible")

	recs, err := s.Search(ctx, testNS, Query{Tags: []string{"outside"}})
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestUploadWithExplicitID(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	raw := []byte("---\nid: chosen\ntitle: named\n---\nbody\n")
	created, err := s.Upload(ctx, testNS, raw)
	require.NoError(t, err)
	require.Equal(t, "chosen", created.ID)

	// The id lives in the record identity, not in the properties map.
	_, hasID := created.Properties[core.KeyID]
	require.False(t, hasID)

	_, err = s.Upload(ctx, testNS, raw)
	require.ErrorIs(t, err, core.ErrDuplicateID)
}
