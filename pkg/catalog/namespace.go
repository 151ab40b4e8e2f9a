package catalog

import (
	"fmt"
	"strings"

	"github.com/tesshy/catalyzer/pkg/core"
)

// Namespace segments and record ids become storage partition and file
// names. Rejecting separators and path meta-names up front keeps the
// triple-to-partition mapping collision-free and free of traversal.

// ValidateNamespace checks every segment of the triple. It fails with
// core.ErrInvalidNamespace before any I/O happens.
func ValidateNamespace(ns core.Namespace) error {
	for _, seg := range []struct {
		name, value string
	}{
		{"organization", ns.Org},
		{"group", ns.Group},
		{"user", ns.User},
	} {
		if err := validateSegment(seg.value); err != nil {
			return fmt.Errorf("%w: %s %q: %v", core.ErrInvalidNamespace, seg.name, seg.value, err)
		}
	}
	return nil
}

func validateSegment(s string) error {
	switch {
	case s == "":
		return fmt.Errorf("segment is empty")
	case s == "." || s == "..":
		return fmt.Errorf("segment is a path meta-name")
	case strings.ContainsAny(s, "/\\\x00"):
		return fmt.Errorf("segment contains a path separator")
	}
	return nil
}

// validateID applies the same rules to record ids, which become file
// names inside the partition directory.
func validateID(id string) error {
	if err := validateSegment(id); err != nil {
		return fmt.Errorf("%w: id %q: %v", core.ErrInvalidNamespace, id, err)
	}
	return nil
}
