package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tesshy/catalyzer/pkg/core"
	"github.com/tesshy/catalyzer/pkg/index"
)

// partition is the unit of isolation: one record table plus its two
// indexes, guarded by one RWMutex. Writers are exclusive; readers run
// concurrently with each other but never with a writer. Operations on
// different partitions are fully independent.
type partition struct {
	ns   core.Namespace
	repo core.PartitionRepository

	mu      sync.RWMutex
	records map[string]*core.CatalogRecord
	tags    *index.Tag
	text    *index.Text
}

func newPartition(ns core.Namespace, repo core.PartitionRepository) *partition {
	return &partition{
		ns:      ns,
		repo:    repo,
		records: make(map[string]*core.CatalogRecord),
		tags:    index.NewTag(),
		text:    index.NewText(),
	}
}

// rebuild reloads the record table from the repository and reconstructs
// both indexes from it. Idempotent: rebuilding twice yields the same
// live state, which is what makes it safe as the crash/divergence
// recovery path.
//
// The write lock covers the repository snapshot as well as the swap: a
// writer racing the snapshot could otherwise persist and insert a
// record between the two, and the stale snapshot would then hide it
// until the next rebuild.
func (p *partition) rebuild(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	recs, err := p.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("rebuild %s: %w", p.ns, err)
	}

	records := make(map[string]*core.CatalogRecord, len(recs))
	tags := index.NewTag()
	text := index.NewText()
	for _, rec := range recs {
		records[rec.ID] = rec
		tags.Add(rec.ID, rec.Tags)
		text.Index(rec.ID, rec.Title, rec.Body)
	}

	p.records = records
	p.tags = tags
	p.text = text
	return nil
}

// insert adds a record to the table and both indexes. Caller holds the
// write lock.
func (p *partition) insert(rec *core.CatalogRecord) {
	p.records[rec.ID] = rec
	p.tags.Add(rec.ID, rec.Tags)
	p.text.Index(rec.ID, rec.Title, rec.Body)
}

// retract removes a record from the table and both indexes. Caller
// holds the write lock.
func (p *partition) retract(rec *core.CatalogRecord) {
	delete(p.records, rec.ID)
	p.tags.Remove(rec.ID, rec.Tags)
	p.text.Remove(rec.ID)
}

// all returns every record, newest first (CreatedAt descending, id
// ascending on ties). Caller holds at least the read lock.
func (p *partition) all() []*core.CatalogRecord {
	out := make([]*core.CatalogRecord, 0, len(p.records))
	for _, rec := range p.records {
		out = append(out, rec)
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(recs []*core.CatalogRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.After(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}
