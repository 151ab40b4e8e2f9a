// Package core holds the domain model of the catalog: records,
// namespaces, sentinel errors and the persistence contract. It is
// agnostic to storage format and transport.
package core

import (
	"time"
)

// Properties represents the flexible key-value pairs carried by a
// record: the complete original frontmatter, including fields not
// promoted to typed attributes.
type Properties map[string]any

// Namespace is the three-level logical partition key.
type Namespace struct {
	Org   string
	Group string
	User  string
}

// String renders the triple as org/group/user. Segments never contain
// separators (see catalog.ValidateNamespace), so the mapping is
// collision-free across distinct triples.
func (n Namespace) String() string {
	return n.Org + "/" + n.Group + "/" + n.User
}

// CatalogRecord is the canonical in-memory representation of one
// cataloged document.
//
// Invariant: every typed attribute present in the source frontmatter
// equals the corresponding entry in Properties. SyncProperties restores
// the invariant after typed mutations.
type CatalogRecord struct {
	ID         string
	Namespace  Namespace
	Title      string
	Author     string
	URL        string
	Tags       []string
	Locations  []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Body       string
	Properties Properties
}

// Frontmatter keys promoted to typed attributes.
const (
	KeyID        = "id"
	KeyTitle     = "title"
	KeyAuthor    = "author"
	KeyURL       = "url"
	KeyTags      = "tags"
	KeyLocations = "locations"
	KeyCreatedAt = "created_at"
	KeyUpdatedAt = "updated_at"
)

// RecordFromProperties derives a record from a parsed frontmatter map
// and body. Recognized keys are promoted to typed attributes; the whole
// map is kept as Properties. Unrecognized keys are never dropped.
func RecordFromProperties(props Properties, body string) *CatalogRecord {
	rec := &CatalogRecord{
		Body:       body,
		Properties: props,
	}
	if rec.Properties == nil {
		rec.Properties = Properties{}
	}

	// An id key addresses the record; it lives in the record identity,
	// not in the properties map (the storage layer derives it from the
	// file name).
	if v, ok := props[KeyID].(string); ok {
		rec.ID = v
		delete(props, KeyID)
	}
	if v, ok := props[KeyTitle].(string); ok {
		rec.Title = v
	}
	if v, ok := props[KeyAuthor].(string); ok {
		rec.Author = v
	}
	if v, ok := props[KeyURL].(string); ok {
		rec.URL = v
	}
	rec.Tags = CleanTags(StringList(props[KeyTags]))
	rec.Locations = StringList(props[KeyLocations])
	if t, ok := AsTime(props[KeyCreatedAt]); ok {
		rec.CreatedAt = t
	}
	if t, ok := AsTime(props[KeyUpdatedAt]); ok {
		rec.UpdatedAt = t
	}
	return rec
}

// SyncProperties writes the typed attributes back into Properties so
// the raw view never drifts from the typed view. Zero-valued optional
// attributes are written only if the key was already present.
func (r *CatalogRecord) SyncProperties() {
	if r.Properties == nil {
		r.Properties = Properties{}
	}
	syncString(r.Properties, KeyTitle, r.Title)
	syncString(r.Properties, KeyAuthor, r.Author)
	syncString(r.Properties, KeyURL, r.URL)
	if len(r.Tags) > 0 {
		r.Properties[KeyTags] = toAnyList(r.Tags)
	} else {
		delete(r.Properties, KeyTags)
	}
	if len(r.Locations) > 0 {
		r.Properties[KeyLocations] = toAnyList(r.Locations)
	} else {
		delete(r.Properties, KeyLocations)
	}
	if !r.CreatedAt.IsZero() {
		r.Properties[KeyCreatedAt] = r.CreatedAt
	}
	if !r.UpdatedAt.IsZero() {
		r.Properties[KeyUpdatedAt] = r.UpdatedAt
	}
}

func syncString(p Properties, key, val string) {
	if val != "" {
		p[key] = val
		return
	}
	delete(p, key)
}

// Clone returns a copy safe to hand out to callers: slices and the
// properties map are copied one level deep.
func (r *CatalogRecord) Clone() *CatalogRecord {
	c := *r
	c.Tags = append([]string(nil), r.Tags...)
	c.Locations = append([]string(nil), r.Locations...)
	c.Properties = make(Properties, len(r.Properties))
	for k, v := range r.Properties {
		c.Properties[k] = v
	}
	return &c
}

// CleanTags drops empty strings and duplicates, preserving the first
// occurrence order for display.
func CleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// StringList coerces a frontmatter value into a string slice. YAML
// lists decode as []any; non-string elements are skipped.
func StringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}

// AsTime coerces a frontmatter value into a timestamp. YAML resolves
// ISO-8601 scalars to time.Time; RFC 3339 strings are accepted too.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

func toAnyList(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

// Patch describes a partial update. Nil fields are left untouched;
// non-nil fields replace the existing value wholesale.
type Patch struct {
	Title      *string
	Author     *string
	URL        *string
	Tags       *[]string
	Locations  *[]string
	Body       *string
	Properties Properties // merged key-by-key over the existing map
}

// Apply merges the patch over rec, returning whether the tag set or the
// indexed text (title/body) changed. Timestamps are the caller's job.
func (p Patch) Apply(rec *CatalogRecord) (tagsChanged, textChanged bool) {
	if p.Title != nil && *p.Title != rec.Title {
		rec.Title = *p.Title
		textChanged = true
	}
	if p.Author != nil {
		rec.Author = *p.Author
	}
	if p.URL != nil {
		rec.URL = *p.URL
	}
	if p.Tags != nil {
		rec.Tags = CleanTags(*p.Tags)
		tagsChanged = true
	}
	if p.Locations != nil {
		rec.Locations = append([]string(nil), (*p.Locations)...)
	}
	if p.Body != nil && *p.Body != rec.Body {
		rec.Body = *p.Body
		textChanged = true
	}
	for k, v := range p.Properties {
		rec.Properties[k] = v
	}
	return tagsChanged, textChanged
}
