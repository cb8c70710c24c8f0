// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package alter

import (
	"errors"

	"github.com/openchoreo/maxctrl/internal/faults"
)

// Input validation failures. They are always returned wrapped in a
// faults.ValidationError, so both errors.Is and faults.IsCategory work.
var (
	ErrInvalidCategory   = errors.New("invalid resource category")
	ErrMissingIdentifier = errors.New("missing resource identifier")
	ErrEmptyKey          = errors.New("empty parameter key")
)

func invalid(message string, sentinel error) error {
	return faults.Validation(message, sentinel)
}
