package core

import "errors"

// Sentinel errors for the catalog contracts. Callers discriminate with
// errors.Is; concrete messages are attached at the point of failure via
// fmt.Errorf("...: %w", ...).
var (
	// ErrMalformedDocument indicates the frontmatter header block is
	// absent, unterminated, or not a key/value mapping.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidNamespace indicates a bad organization/group/user
	// segment. Rejected before any I/O.
	ErrInvalidNamespace = errors.New("invalid namespace")

	// ErrDuplicateID indicates a caller-supplied id already exists in
	// the target partition.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrNotFound indicates the addressed record (or partition) does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreInconsistent indicates the record table and the indexes
	// diverged. The store logs it and triggers a partition rebuild.
	ErrStoreInconsistent = errors.New("store inconsistent")
)
