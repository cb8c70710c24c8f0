// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package patch mutates JSON documents decoded into map[string]any trees.
//
// Paths are given as pre-split segment lists. Setting a value creates every
// missing intermediate object on the way down, and any intermediate value
// that is not an object is replaced by one: the requested path always wins.
package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ErrEmptyPath is returned when an operation is given no path segments.
var ErrEmptyPath = errors.New("path has no segments")

// SetPath sets value at the location described by segments, creating or
// replacing intermediate objects as needed.
//
// Only the spine of the path and its leaf are touched; sibling fields at every
// level are left as they were.
func SetPath(root map[string]any, segments []string, value any) error {
	if len(segments) == 0 {
		return ErrEmptyPath
	}
	if root == nil {
		return fmt.Errorf("cannot set %s on a nil document", Pointer(segments))
	}

	parent := ensureParents(root, segments)
	parent[segments[len(segments)-1]] = value
	return nil
}

// Lookup walks segments from root and returns the value found there.
// The second result is false when any segment is missing or a non-object is
// encountered before the last segment.
func Lookup(root map[string]any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return root, root != nil
	}
	current := root
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	value, ok := current[segments[len(segments)-1]]
	return value, ok
}

// ensureParents walks every segment except the last one and returns the object
// that should hold the leaf.
//
// A segment that is missing, nil, or holds anything other than an object is
// replaced with a fresh empty object.
func ensureParents(root map[string]any, segments []string) map[string]any {
	current := root
	for _, seg := range segments[:len(segments)-1] {
		child, ok := current[seg].(map[string]any)
		if !ok || child == nil {
			child = map[string]any{}
			current[seg] = child
		}
		current = child
	}
	return current
}

// --- RFC 6902 ----------------------------------------------------------------

// AddOperation renders the JSON Patch "add" operation equivalent to
// SetPath(root, segments, value).
func AddOperation(segments []string, value any) Operation {
	return Operation{Op: OpAdd, Path: Pointer(segments), Value: value}
}

// Apply returns the result of applying RFC 6902 operations to a copy of doc.
// doc itself is never modified, even when an operation fails.
//
// Parents of "add" targets are created first with the same policy as SetPath,
// so an add never fails because of a missing or scalar intermediate. Numbers
// are decoded as json.Number so they survive the round trip unchanged.
func Apply(doc map[string]any, ops []Operation) (map[string]any, error) {
	working := DeepCopy(nonNil(doc))
	for _, op := range ops {
		if op.Op != OpAdd {
			continue
		}
		if segments := splitPointer(op.Path); len(segments) > 0 {
			ensureParents(working, segments)
		}
	}

	patchBytes, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal patch: %w", err)
	}
	docBytes, err := json.Marshal(working)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	decoded, err := jsonpatch.DecodePatch(patchBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON patch: %w", err)
	}
	patched, err := decoded.Apply(docBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to apply JSON patch: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.UseNumber()
	var updated map[string]any
	if err := dec.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode patched document: %w", err)
	}
	return updated, nil
}

// Equal reports whether a and b serialize to the same JSON document.
func Equal(a, b map[string]any) (bool, error) {
	left, err := json.Marshal(nonNil(a))
	if err != nil {
		return false, err
	}
	right, err := json.Marshal(nonNil(b))
	if err != nil {
		return false, err
	}
	return jsonpatch.Equal(left, right), nil
}

// --- RFC 7386 ----------------------------------------------------------------

// MergePatch returns the JSON merge patch that turns before into after.
// An unchanged document yields "{}".
func MergePatch(before, after map[string]any) ([]byte, error) {
	original, err := json.Marshal(nonNil(before))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal original document: %w", err)
	}
	modified, err := json.Marshal(nonNil(after))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal modified document: %w", err)
	}
	diff, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, fmt.Errorf("failed to compute merge patch: %w", err)
	}
	return diff, nil
}

func nonNil(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// --- Pointers ----------------------------------------------------------------

// Pointer converts segments into an RFC 6901 JSON Pointer.
func Pointer(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(escapePointerSegment(seg))
	}
	return b.String()
}

// splitPointer parses a JSON Pointer string into unescaped segments.
func splitPointer(pointer string) []string {
	if pointer == "" {
		return []string{}
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, part := range parts {
		parts[i] = unescapePointerSegment(part)
	}
	return parts
}

// escapePointerSegment must escape "~" before "/" to avoid double-escaping.
func escapePointerSegment(seg string) string {
	seg = strings.ReplaceAll(seg, "~", "~0")
	seg = strings.ReplaceAll(seg, "/", "~1")
	return seg
}

func unescapePointerSegment(seg string) string {
	seg = strings.ReplaceAll(seg, "~1", "/")
	seg = strings.ReplaceAll(seg, "~0", "~")
	return seg
}

// --- Copying -----------------------------------------------------------------

// DeepCopy recursively copies a document and all nested maps and slices.
func DeepCopy(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	result := make(map[string]any, len(src))
	for k, v := range src {
		result[k] = cloneValue(v)
	}
	return result
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return DeepCopy(typed)
	case []any:
		return deepCopySlice(typed)
	default:
		return typed
	}
}

func deepCopySlice(src []any) []any {
	if src == nil {
		return nil
	}
	result := make([]any, len(src))
	for i, v := range src {
		result[i] = cloneValue(v)
	}
	return result
}
