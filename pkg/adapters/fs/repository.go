// Package fs implements the partition persistence contract on the
// local filesystem: one directory per namespace partition, one
// frontmatter markdown file per record. Indexes are not persisted;
// they are rebuilt from this record table.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/tesshy/catalyzer/pkg/core"
	"github.com/tesshy/catalyzer/pkg/frontmatter"
)

const recordExt = ".md"

// Provider opens filesystem-backed repositories under a single root:
// root/org/group/user/<id>.md.
type Provider struct {
	root   string
	logger *slog.Logger
}

// NewProvider creates a provider rooted at root. The root directory is
// created on demand by the first partition write.
func NewProvider(root string, logger *slog.Logger) *Provider {
	return &Provider{root: root, logger: logger}
}

// Root returns the provider's root directory.
func (p *Provider) Root() string {
	return p.root
}

// Open returns the repository for ns. Nothing is created on disk until
// Initialize is called on the returned repository.
func (p *Provider) Open(ctx context.Context, ns core.Namespace) (core.PartitionRepository, error) {
	return &Repository{
		dir:    filepath.Join(p.root, ns.Org, ns.Group, ns.User),
		ns:     ns,
		logger: p.logger,
	}, nil
}

// List enumerates every namespace with an existing partition directory.
func (p *Provider) List(ctx context.Context) ([]core.Namespace, error) {
	var out []core.Namespace

	orgs, err := readDirNames(p.root)
	if err != nil {
		return nil, err
	}
	for _, org := range orgs {
		groups, err := readDirNames(filepath.Join(p.root, org))
		if err != nil {
			return nil, err
		}
		for _, group := range groups {
			users, err := readDirNames(filepath.Join(p.root, org, group))
			if err != nil {
				return nil, err
			}
			for _, user := range users {
				out = append(out, core.Namespace{Org: org, Group: group, User: user})
			}
		}
	}
	return out, nil
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Repository persists one partition's record table as markdown files.
type Repository struct {
	dir    string
	ns     core.Namespace
	logger *slog.Logger
}

// Dir returns the partition directory. The watch worker registers it
// with fsnotify.
func (r *Repository) Dir() string {
	return r.dir
}

// Initialize creates the partition directory. Idempotent.
func (r *Repository) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create partition %s: %w", r.ns, err)
	}
	return nil
}

// Save writes the record to <id>.md atomically (temp file + rename), so
// a crash mid-write never leaves a torn record behind.
func (r *Repository) Save(ctx context.Context, rec *core.CatalogRecord) error {
	data, err := frontmatter.Serialize(rec.Properties, rec.Body)
	if err != nil {
		return fmt.Errorf("failed to serialize record %s: %w", rec.ID, err)
	}

	path := filepath.Join(r.dir, rec.ID+recordExt)
	if r.logger != nil {
		r.logger.Debug("writing record", "namespace", r.ns.String(), "id", rec.ID, "path", path)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
	}
	return nil
}

// Load reads and parses a single record.
func (r *Repository) Load(ctx context.Context, id string) (*core.CatalogRecord, error) {
	path := filepath.Join(r.dir, id+recordExt)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("record %s in %s: %w", id, r.ns, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record %s: %w", id, err)
	}
	return r.decode(id, data)
}

// LoadAll parses every record file in the partition. Files that fail to
// parse are skipped with a warning rather than aborting the load, so
// one damaged file cannot take the whole partition offline.
func (r *Repository) LoadAll(ctx context.Context) ([]*core.CatalogRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read partition %s: %w", r.ns, err)
	}

	var out []*core.CatalogRecord
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != recordExt {
			continue
		}
		id := strings.TrimSuffix(name, recordExt)
		rec, err := r.Load(ctx, id)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("skipping unreadable record", "namespace", r.ns.String(), "id", id, "error", err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the record file.
func (r *Repository) Delete(ctx context.Context, id string) error {
	path := filepath.Join(r.dir, id+recordExt)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("record %s in %s: %w", id, r.ns, core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

func (r *Repository) decode(id string, data []byte) (*core.CatalogRecord, error) {
	props, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	rec := core.RecordFromProperties(props, body)
	rec.ID = id
	rec.Namespace = r.ns
	return rec, nil
}
