// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package patch

// Operation represents a single RFC 6902 JSON Patch operation.
type Operation struct {
	Op    string `json:"op" yaml:"op"`
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// OpAdd is the only operation maxctrl renders: setting a parameter either
// creates the member or replaces it.
const OpAdd = "add"
