// Package index implements the two in-memory inverted indexes of a
// partition: the tag index (intersection queries) and the full-text
// index (union queries with relevance ordering). Neither is
// goroutine-safe on its own; the owning partition serializes access.
package index

// Tag maps tag strings to the set of record ids carrying them.
type Tag struct {
	postings map[string]map[string]struct{}
}

// NewTag creates an empty tag index.
func NewTag() *Tag {
	return &Tag{postings: make(map[string]map[string]struct{})}
}

// Add registers id under every tag. Amortized O(1) per (tag, id) pair.
func (t *Tag) Add(id string, tags []string) {
	for _, tag := range tags {
		set, ok := t.postings[tag]
		if !ok {
			set = make(map[string]struct{})
			t.postings[tag] = set
		}
		set[id] = struct{}{}
	}
}

// Remove retracts id from every tag, dropping emptied posting sets.
func (t *Tag) Remove(id string, tags []string) {
	for _, tag := range tags {
		set, ok := t.postings[tag]
		if !ok {
			continue
		}
		delete(set, id)
		if len(set) == 0 {
			delete(t.postings, tag)
		}
	}
}

// Lookup returns the ids carrying every tag in the query (intersection
// semantics: comma-separated tags mean AND). An empty query matches
// nothing; distinguishing "no tag filter" from "empty filter" is the
// orchestrator's job. Cost is proportional to the smallest posting set.
func (t *Tag) Lookup(tags []string) map[string]struct{} {
	if len(tags) == 0 {
		return nil
	}

	smallest := -1
	for i, tag := range tags {
		set, ok := t.postings[tag]
		if !ok {
			return nil
		}
		if smallest < 0 || len(set) < len(t.postings[tags[smallest]]) {
			smallest = i
		}
	}

	out := make(map[string]struct{})
candidates:
	for id := range t.postings[tags[smallest]] {
		for i, tag := range tags {
			if i == smallest {
				continue
			}
			if _, ok := t.postings[tag][id]; !ok {
				continue candidates
			}
		}
		out[id] = struct{}{}
	}
	return out
}

// Len returns the number of distinct tags currently indexed.
func (t *Tag) Len() int {
	return len(t.postings)
}
