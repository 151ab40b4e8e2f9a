package index

import "testing"

func ids(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func TestTagLookupIntersection(t *testing.T) {
	idx := NewTag()
	idx.Add("r1", []string{"a", "b", "c"})
	idx.Add("r2", []string{"a", "c"})
	idx.Add("r3", []string{"b"})

	tests := []struct {
		name  string
		query []string
		want  map[string]bool
	}{
		{"single tag", []string{"a"}, map[string]bool{"r1": true, "r2": true}},
		{"two tags AND", []string{"a", "b"}, map[string]bool{"r1": true}},
		{"all three", []string{"a", "b", "c"}, map[string]bool{"r1": true}},
		{"unknown tag", []string{"z"}, map[string]bool{}},
		{"known plus unknown", []string{"a", "z"}, map[string]bool{}},
		{"empty query matches nothing", nil, map[string]bool{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := idx.Lookup(tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("want %d ids, got %v", len(tc.want), ids(got))
			}
			for id := range got {
				if !tc.want[id] {
					t.Errorf("unexpected id %s", id)
				}
			}
		})
	}
}

func TestTagRemove(t *testing.T) {
	idx := NewTag()
	idx.Add("r1", []string{"a", "b"})
	idx.Add("r2", []string{"a"})

	idx.Remove("r1", []string{"a", "b"})

	if got := idx.Lookup([]string{"a"}); len(got) != 1 {
		t.Errorf("want only r2 under 'a', got %v", ids(got))
	}
	if got := idx.Lookup([]string{"b"}); len(got) != 0 {
		t.Errorf("want empty 'b' bucket, got %v", ids(got))
	}
	// Emptied posting sets are dropped entirely.
	if idx.Len() != 1 {
		t.Errorf("want 1 live tag, got %d", idx.Len())
	}
}
