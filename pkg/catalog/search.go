package catalog

import (
	"context"
	"errors"

	"github.com/tesshy/catalyzer/pkg/core"
)

// Query carries the two independent, combinable search filters. The
// two deliberately differ in semantics: tags intersect (a record must
// carry every tag), text terms union (one matching term suffices, with
// relevance ordering).
type Query struct {
	// Tags filters with AND semantics. Empty means no tag filter; a
	// query *by* the empty set (matches nothing) is expressed at the
	// index level, not here.
	Tags []string

	// Text filters with OR-over-terms semantics. Empty means no text
	// filter.
	Text string
}

func (q Query) hasTags() bool { return len(q.Tags) > 0 }
func (q Query) hasText() bool { return q.Text != "" }

// Search evaluates the query against one namespace partition.
//
// Both filters: intersection of the two index results, keeping the
// full-text relevance order for the surviving subset. Tag filter only:
// matches ordered newest-first. Text filter only: relevance order.
// No filter: every record in scope, newest-first. Searching a
// namespace that has no partition yet yields an empty result.
func (s *Store) Search(ctx context.Context, ns core.Namespace, q Query) ([]*core.CatalogRecord, error) {
	p, err := s.resolve(ctx, ns, false)
	if err != nil {
		if isMissingPartition(err) {
			return nil, nil
		}
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var matches []*core.CatalogRecord
	switch {
	case q.hasTags() && q.hasText():
		tagged := p.tags.Lookup(q.Tags)
		for _, id := range p.text.Search(q.Text) {
			if _, ok := tagged[id]; ok {
				matches = append(matches, p.records[id])
			}
		}
	case q.hasTags():
		for id := range p.tags.Lookup(q.Tags) {
			matches = append(matches, p.records[id])
		}
		sortNewestFirst(matches)
	case q.hasText():
		for _, id := range p.text.Search(q.Text) {
			matches = append(matches, p.records[id])
		}
	default:
		matches = p.all()
	}

	out := make([]*core.CatalogRecord, len(matches))
	for i, rec := range matches {
		out[i] = rec.Clone()
	}
	return out, nil
}

// isMissingPartition distinguishes "namespace has no partition yet"
// from real failures: the former is an empty search result, the latter
// propagates.
func isMissingPartition(err error) bool {
	return errors.Is(err, core.ErrNotFound)
}
