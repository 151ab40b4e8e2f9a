// Package catalog implements the Catalog Store: a document-oriented
// metadata index over frontmatter markdown records, partitioned by an
// organization/group/user namespace, searchable by tag (AND) and full
// text (OR, ranked).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/tesshy/catalyzer/pkg/adapters/fs"
	"github.com/tesshy/catalyzer/pkg/core"
	"github.com/tesshy/catalyzer/pkg/frontmatter"
)

// Store owns the partitions, enforces the record invariants and keeps
// the two indexes consistent with the record table. It has an explicit
// lifecycle: opened at process start, closed at shutdown, passed as a
// handle rather than held as ambient global state.
type Store struct {
	provider core.PartitionProvider
	logger   *slog.Logger

	mu         sync.Mutex
	partitions map[core.Namespace]*partition
	closed     bool

	watcher *watchWorker
	events  chan core.Event
}

// Open creates a Store rooted at root (ignored when WithProvider
// supplies a backend). Existing partitions are loaded and their indexes
// rebuilt from the record table, so indexes never need to be durable.
func Open(ctx context.Context, root string, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	provider := o.provider
	if provider == nil {
		provider = fs.NewProvider(root, o.logger)
	}

	s := &Store{
		provider:   provider,
		logger:     o.logger,
		partitions: make(map[core.Namespace]*partition),
	}

	namespaces, err := provider.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate partitions: %w", err)
	}
	for _, ns := range namespaces {
		if _, err := s.mount(ctx, ns); err != nil {
			return nil, err
		}
	}

	if o.watch {
		fsProvider, ok := provider.(*fs.Provider)
		if !ok {
			return nil, errors.New("watch requires the filesystem provider")
		}
		s.events = make(chan core.Event, o.eventBuf)
		s.watcher = newWatchWorker(s, fsProvider.Root(), s.events, o.logger)
		if err := s.watcher.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start watch worker: %w", err)
		}
	}

	return s, nil
}

// Close stops the watch worker and releases the store. Operations on a
// closed store fail.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.watcher != nil {
		s.watcher.Stop()
		close(s.events)
	}
	return nil
}

// Events returns the channel carrying watch events. Nil unless the
// store was opened with WithWatch.
func (s *Store) Events() <-chan core.Event {
	return s.events
}

// mount opens and rebuilds the partition for ns, registering it in the
// partition map. Idempotent per namespace.
func (s *Store) mount(ctx context.Context, ns core.Namespace) (*partition, error) {
	repo, err := s.provider.Open(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition %s: %w", ns, err)
	}
	p := newPartition(ns, repo)
	if err := p.rebuild(ctx); err != nil {
		return nil, err
	}
	s.partitions[ns] = p
	return p, nil
}

// resolve maps the triple to its partition. With create set, the
// partition is created lazily on first use; otherwise a missing
// partition reports ErrNotFound. Resolution is idempotent.
func (s *Store) resolve(ctx context.Context, ns core.Namespace, create bool) (*partition, error) {
	if err := ValidateNamespace(ns); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errors.New("store is closed")
	}

	if p, ok := s.partitions[ns]; ok {
		return p, nil
	}
	if !create {
		return nil, fmt.Errorf("partition %s: %w", ns, core.ErrNotFound)
	}

	repo, err := s.provider.Open(ctx, ns)
	if err != nil {
		return nil, fmt.Errorf("failed to open partition %s: %w", ns, err)
	}
	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	p := newPartition(ns, repo)
	s.partitions[ns] = p

	if s.watcher != nil {
		s.watcher.addPartition(p)
	}
	if s.logger != nil {
		s.logger.Info("created partition", "namespace", ns.String())
	}
	return p, nil
}

// Create persists a new record in the namespace partition, creating the
// partition on first write. A fresh id is assigned when none is
// supplied; a caller-supplied id that already exists in the partition
// fails with ErrDuplicateID. Ids are unique per partition, not
// globally.
func (s *Store) Create(ctx context.Context, ns core.Namespace, rec core.CatalogRecord) (*core.CatalogRecord, error) {
	p, err := s.resolve(ctx, ns, true)
	if err != nil {
		return nil, err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	} else if err := validateID(rec.ID); err != nil {
		return nil, err
	}
	rec.Namespace = ns
	rec.Tags = core.CleanTags(rec.Tags)

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.Before(rec.CreatedAt) {
		rec.UpdatedAt = rec.CreatedAt
	}
	rec.SyncProperties()

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.records[rec.ID]; exists {
		return nil, fmt.Errorf("record %s in %s: %w", rec.ID, ns, core.ErrDuplicateID)
	}
	if err := p.repo.Save(ctx, &rec); err != nil {
		return nil, err
	}
	p.insert(&rec)

	if s.logger != nil {
		s.logger.Debug("created record", "namespace", ns.String(), "id", rec.ID)
	}
	return rec.Clone(), nil
}

// Upload parses raw document bytes through the frontmatter codec and
// creates the resulting record. An `id` frontmatter key, when present,
// addresses the record; otherwise a fresh id is assigned.
func (s *Store) Upload(ctx context.Context, ns core.Namespace, raw []byte) (*core.CatalogRecord, error) {
	props, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, err
	}
	rec := core.RecordFromProperties(props, body)
	return s.Create(ctx, ns, *rec)
}

// Get retrieves a record by namespace and id.
func (s *Store) Get(ctx context.Context, ns core.Namespace, id string) (*core.CatalogRecord, error) {
	p, err := s.resolve(ctx, ns, false)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, ok := p.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s in %s: %w", id, ns, core.ErrNotFound)
	}
	return rec.Clone(), nil
}

// Update merges the patch over the existing record, refreshes
// UpdatedAt, persists, and re-indexes only the changed facets. The
// retract-and-insert happens under the partition write lock, so no
// reader ever observes the old and new tag/term associations at once.
func (s *Store) Update(ctx context.Context, ns core.Namespace, id string, patch core.Patch) (*core.CatalogRecord, error) {
	p, err := s.resolve(ctx, ns, false)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	existing, ok := p.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s in %s: %w", id, ns, core.ErrNotFound)
	}

	merged := existing.Clone()
	tagsChanged, textChanged := patch.Apply(merged)
	merged.UpdatedAt = time.Now().UTC()
	if merged.UpdatedAt.Before(merged.CreatedAt) {
		merged.UpdatedAt = merged.CreatedAt
	}
	merged.SyncProperties()

	// Persist first: a failed save leaves both the record table and the
	// indexes exactly as they were.
	if err := p.repo.Save(ctx, merged); err != nil {
		return nil, err
	}

	p.records[id] = merged
	if tagsChanged {
		p.tags.Remove(id, existing.Tags)
		p.tags.Add(id, merged.Tags)
	}
	if textChanged {
		p.text.Index(id, merged.Title, merged.Body)
	}

	if s.logger != nil {
		s.logger.Debug("updated record", "namespace", ns.String(), "id", id)
	}
	return merged.Clone(), nil
}

// Delete removes the record and every index entry it occupied. A
// divergence between the in-memory table and the repository is surfaced
// as ErrStoreInconsistent and answered with a partition rebuild.
func (s *Store) Delete(ctx context.Context, ns core.Namespace, id string) error {
	p, err := s.resolve(ctx, ns, false)
	if err != nil {
		return err
	}

	p.mu.Lock()
	rec, ok := p.records[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("record %s in %s: %w", id, ns, core.ErrNotFound)
	}

	if err := p.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			// The table said the record exists but the repository does
			// not have it: index/record divergence.
			p.mu.Unlock()
			if s.logger != nil {
				s.logger.Error("record table diverged from storage, rebuilding partition",
					"namespace", ns.String(), "id", id)
			}
			if rerr := p.rebuild(ctx); rerr != nil {
				return fmt.Errorf("%w: rebuild failed: %v", core.ErrStoreInconsistent, rerr)
			}
			return fmt.Errorf("record %s in %s: %w", id, ns, core.ErrStoreInconsistent)
		}
		p.mu.Unlock()
		return err
	}

	p.retract(rec)
	p.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("deleted record", "namespace", ns.String(), "id", id)
	}
	return nil
}

// Rebuild reconstructs the partition's indexes from its record table.
// Idempotent; this is the recovery path after a crash mid-write or a
// detected divergence.
func (s *Store) Rebuild(ctx context.Context, ns core.Namespace) error {
	p, err := s.resolve(ctx, ns, false)
	if err != nil {
		return err
	}
	return p.rebuild(ctx)
}

// Namespaces enumerates the known partitions, sorted, optionally
// filtered by a doublestar glob over "org/group/user" (e.g.
// "contoso/*/tesshy" or "**"). An empty pattern matches everything.
func (s *Store) Namespaces(pattern string) ([]core.Namespace, error) {
	if pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid namespace pattern %q", pattern)
		}
	}

	s.mu.Lock()
	all := make([]core.Namespace, 0, len(s.partitions))
	for ns := range s.partitions {
		all = append(all, ns)
	}
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].String() < all[j].String() })

	if pattern == "" {
		return all, nil
	}
	out := all[:0]
	for _, ns := range all {
		ok, err := doublestar.Match(pattern, ns.String())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, ns)
		}
	}
	return out, nil
}
