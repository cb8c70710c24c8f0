// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package alter

import (
	"fmt"
	"strings"
)

// DottedPath is a walk from a document root to a leaf field.
type DottedPath []string

// ParseDottedPath splits s on ".".
//
// An empty string, or one with an empty segment such as "a..b" or ".a", is
// rejected with ErrEmptyKey.
func ParseDottedPath(s string) (DottedPath, error) {
	if s == "" {
		return nil, invalid("parameter key is empty", ErrEmptyKey)
	}
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if seg == "" {
			return nil, invalid(fmt.Sprintf("parameter key %q has an empty segment at position %d", s, i+1), ErrEmptyKey)
		}
	}
	return DottedPath(segments), nil
}

// parsePrefix splits an attribute prefix such as "data.attributes.parameters."
// The trailing separator does not produce a segment.
func parsePrefix(prefix string) DottedPath {
	return DottedPath(strings.Split(strings.TrimSuffix(prefix, "."), "."))
}

// Join returns p followed by other. Neither input is modified.
func (p DottedPath) Join(other DottedPath) DottedPath {
	out := make(DottedPath, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

func (p DottedPath) String() string {
	return strings.Join(p, ".")
}
