// Package frontmatter parses and serializes documents made of a YAML
// key/value header block followed by a freeform body. Unknown header
// keys pass through verbatim in both directions, which is what lets a
// record's properties be a superset of its typed fields.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tesshy/catalyzer/pkg/core"
)

// Fields is a parsed frontmatter header. Nested values beyond simple
// lists and scalars are carried as opaque values, not rejected.
type Fields = core.Properties

var delimiter = []byte("---")

// Parse splits raw into the frontmatter header and the body. The header
// block is mandatory; a document without one fails with
// core.ErrMalformedDocument. Parse is the left inverse of Serialize.
func Parse(raw []byte) (Fields, string, error) {
	if !bytes.HasPrefix(raw, []byte("---\n")) && !bytes.HasPrefix(raw, []byte("---\r\n")) {
		return nil, "", fmt.Errorf("%w: missing frontmatter header", core.ErrMalformedDocument)
	}

	rest := raw[len(delimiter):]
	rest = bytes.TrimPrefix(rest, []byte("\r"))
	rest = bytes.TrimPrefix(rest, []byte("\n"))

	head, body, ok := cutClosing(rest)
	if !ok {
		return nil, "", fmt.Errorf("%w: frontmatter started but no closing delimiter found", core.ErrMalformedDocument)
	}

	fields := Fields{}
	if len(bytes.TrimSpace(head)) > 0 {
		var node yaml.Node
		if err := yaml.Unmarshal(head, &node); err != nil {
			return nil, "", fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind != yaml.MappingNode {
			return nil, "", fmt.Errorf("%w: frontmatter is not a key/value mapping", core.ErrMalformedDocument)
		}
		// Decode into a plain map so nested mappings come out as
		// map[string]any, same as every other opaque value.
		var m map[string]any
		if err := yaml.Unmarshal(head, &m); err != nil {
			return nil, "", fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
		}
		fields = Fields(m)
	}

	return fields, string(body), nil
}

// cutClosing finds the closing "---" on its own line. The header is
// everything before it, the body everything after.
func cutClosing(rest []byte) (head, body []byte, ok bool) {
	if bytes.HasPrefix(rest, delimiter) {
		// Empty header: "---\n---\n..."
		return nil, trimLine(rest[len(delimiter):]), true
	}
	for _, sep := range [][]byte{[]byte("\n---\r\n"), []byte("\n---\n"), []byte("\n---")} {
		if idx := bytes.Index(rest, sep); idx >= 0 {
			head = rest[:idx+1] // keep the trailing newline for YAML
			body = rest[idx+len(sep):]
			if bytes.Equal(sep, []byte("\n---")) && len(body) > 0 {
				// Bare "\n---" only closes the header at end of input.
				continue
			}
			return head, body, true
		}
	}
	return nil, nil, false
}

func trimLine(b []byte) []byte {
	b = bytes.TrimPrefix(b, []byte("\r"))
	return bytes.TrimPrefix(b, []byte("\n"))
}

// Serialize renders fields and body back into document bytes. The
// header block is always emitted, even when fields is empty, so that
// Parse(Serialize(f, b)) == (f, b) holds for any well-formed f.
func Serialize(fields Fields, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(delimiter)
	buf.WriteByte('\n')
	if len(fields) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(fields)); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
		}
	}
	buf.Write(delimiter)
	buf.WriteByte('\n')
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// Sniff reports whether raw looks like a frontmatter document. Useful
// for callers distinguishing raw uploads from structured payloads.
func Sniff(raw []byte) bool {
	return bytes.HasPrefix(raw, delimiter)
}
