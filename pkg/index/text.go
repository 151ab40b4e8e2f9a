package index

import (
	"sort"
	"strings"
	"unicode"
)

// Text maps content tokens to the records containing them, with term
// frequencies for relevance scoring. Only title and body are indexed;
// location URLs are deliberately not tokenized.
type Text struct {
	postings map[string]map[string]int // token -> id -> term frequency
	docs     map[string]map[string]int // id -> token -> term frequency
}

// NewText creates an empty full-text index.
func NewText() *Text {
	return &Text{
		postings: make(map[string]map[string]int),
		docs:     make(map[string]map[string]int),
	}
}

// Tokenize lowercases s and splits on non-alphanumeric boundaries,
// dropping empty tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Index registers a record's title and body. Any previous content for
// the same id is retracted first, so Index doubles as re-index.
func (x *Text) Index(id, title, body string) {
	x.Remove(id)

	freq := make(map[string]int)
	for _, tok := range Tokenize(title) {
		freq[tok]++
	}
	for _, tok := range Tokenize(body) {
		freq[tok]++
	}
	if len(freq) == 0 {
		return
	}

	x.docs[id] = freq
	for tok, n := range freq {
		set, ok := x.postings[tok]
		if !ok {
			set = make(map[string]int)
			x.postings[tok] = set
		}
		set[id] = n
	}
}

// Remove retracts every token association for id.
func (x *Text) Remove(id string) {
	freq, ok := x.docs[id]
	if !ok {
		return
	}
	for tok := range freq {
		set := x.postings[tok]
		delete(set, id)
		if len(set) == 0 {
			delete(x.postings, tok)
		}
	}
	delete(x.docs, id)
}

// Search returns the ids of records containing at least one query term
// (union semantics, in contrast to the tag index's intersection).
// Relevance is the summed term frequency over matching terms; ties
// break by id ascending so pagination is reproducible.
func (x *Text) Search(query string) []string {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	scores := make(map[string]int)
	seen := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		for id, n := range x.postings[term] {
			scores[id] += n
		}
	}

	out := make([]string, 0, len(scores))
	for id := range scores {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if scores[out[i]] != scores[out[j]] {
			return scores[out[i]] > scores[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Contains reports whether id currently has indexed content.
func (x *Text) Contains(id string) bool {
	_, ok := x.docs[id]
	return ok
}
