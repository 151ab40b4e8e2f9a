package core

import (
	"reflect"
	"testing"
	"time"
)

func TestRecordFromProperties(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	props := Properties{
		"id":         "r1",
		"title":      "data1.csv",
		"author":     "tesshy",
		"url":        "https://contoso.com",
		"tags":       []any{"sample", "", "csv", "sample"},
		"locations":  []any{"https://contoso.com/data1.csv"},
		"created_at": created,
		"updated_at": "2024-05-02T10:00:00Z", // RFC 3339 string form
		"rating":     5,                      // unknown key, preserved
	}

	rec := RecordFromProperties(props, "body text")

	if rec.ID != "r1" {
		t.Errorf("id not promoted: %q", rec.ID)
	}
	if _, ok := rec.Properties["id"]; ok {
		t.Error("id must move into the record identity, not stay in properties")
	}
	if rec.Title != "data1.csv" || rec.Author != "tesshy" {
		t.Errorf("typed fields mismatch: %+v", rec)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"sample", "csv"}) {
		t.Errorf("tags not cleaned: %v", rec.Tags)
	}
	if !rec.CreatedAt.Equal(created) {
		t.Errorf("created_at mismatch: %v", rec.CreatedAt)
	}
	if rec.UpdatedAt.IsZero() {
		t.Error("updated_at string form not parsed")
	}
	if rec.Properties["rating"] != 5 {
		t.Errorf("unknown key dropped: %v", rec.Properties)
	}
	if rec.Body != "body text" {
		t.Errorf("body mismatch: %q", rec.Body)
	}
}

func TestSyncProperties(t *testing.T) {
	rec := &CatalogRecord{
		Title: "t",
		Tags:  []string{"a"},
	}
	rec.SyncProperties()

	if rec.Properties[KeyTitle] != "t" {
		t.Errorf("title not synced: %v", rec.Properties)
	}

	// Clearing a typed field removes its property entry instead of
	// leaving a stale value behind.
	rec.Title = ""
	rec.Tags = nil
	rec.SyncProperties()
	if _, ok := rec.Properties[KeyTitle]; ok {
		t.Error("stale title survived sync")
	}
	if _, ok := rec.Properties[KeyTags]; ok {
		t.Error("stale tags survived sync")
	}
}

func TestCleanTags(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, nil},
		{[]string{""}, nil},
		{[]string{"a", "a", "b"}, []string{"a", "b"}},
		{[]string{"b", "a", "b"}, []string{"b", "a"}}, // first-occurrence order
	}
	for _, tc := range tests {
		if got := CleanTags(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("CleanTags(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPatchApply(t *testing.T) {
	rec := &CatalogRecord{
		Title:      "old",
		Author:     "a",
		Tags:       []string{"x"},
		Body:       "old body",
		Properties: Properties{"rating": 1},
	}

	title := "new"
	tags := []string{"y", ""}
	p := Patch{
		Title:      &title,
		Tags:       &tags,
		Properties: Properties{"rating": 2},
	}

	tagsChanged, textChanged := p.Apply(rec)
	if !tagsChanged || !textChanged {
		t.Errorf("change detection wrong: tags=%v text=%v", tagsChanged, textChanged)
	}
	if rec.Title != "new" || rec.Author != "a" {
		t.Errorf("merge wrong: %+v", rec)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"y"}) {
		t.Errorf("tags not cleaned on apply: %v", rec.Tags)
	}
	if rec.Properties["rating"] != 2 {
		t.Errorf("properties not merged: %v", rec.Properties)
	}

	// A no-op patch reports no facet changes.
	tagsChanged, textChanged = Patch{}.Apply(rec)
	if tagsChanged || textChanged {
		t.Error("empty patch must not flag changes")
	}
}

func TestClone(t *testing.T) {
	rec := &CatalogRecord{
		Tags:       []string{"a"},
		Properties: Properties{"k": "v"},
	}
	c := rec.Clone()
	c.Tags[0] = "mutated"
	c.Properties["k"] = "mutated"

	if rec.Tags[0] != "a" || rec.Properties["k"] != "v" {
		t.Error("clone shares state with the original")
	}
}
