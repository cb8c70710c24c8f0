// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package alter

import (
	"github.com/openchoreo/maxctrl/internal/patch"
)

// Document is a resource representation decoded from JSON.
type Document = map[string]any

// ApplyUpdate sets the leaf at fullPath to value, creating intermediate
// objects and replacing intermediate non-objects as needed.
//
// The document is mutated in place and returned; a nil document is replaced
// by a new empty one. The value is stored verbatim as a string. When fullPath
// is empty nothing is mutated and ErrEmptyKey is returned.
func ApplyUpdate(doc Document, fullPath DottedPath, value string) (Document, error) {
	if len(fullPath) == 0 {
		return doc, invalid("parameter path is empty", ErrEmptyKey)
	}
	for _, seg := range fullPath {
		if seg == "" {
			return doc, invalid("parameter path "+fullPath.String()+" has an empty segment", ErrEmptyKey)
		}
	}
	if doc == nil {
		doc = Document{}
	}
	if err := patch.SetPath(doc, fullPath, value); err != nil {
		return doc, err
	}
	return doc, nil
}
