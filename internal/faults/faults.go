// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package faults classifies errors into the categories the CLI maps to exit codes.
package faults

import "errors"

// Category names a class of failure.
type Category string

const (
	ValidationError Category = "ValidationError"
	NotFoundError   Category = "NotFoundError"
	ConflictError   Category = "ConflictError"
	AuthError       Category = "AuthError"
	TransportError  Category = "TransportError"
	InternalError   Category = "InternalError"
)

// TypedError attaches a Category to an error message and an optional cause.
type TypedError struct {
	Category Category
	Message  string
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case e.Message != "" && e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	default:
		return string(e.Category)
	}
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New returns a TypedError for the given category.
func New(category Category, message string, cause error) *TypedError {
	return &TypedError{Category: category, Message: message, Cause: cause}
}

// Validation is shorthand for New(ValidationError, ...).
func Validation(message string, cause error) error {
	return New(ValidationError, message, cause)
}

// Transport is shorthand for New(TransportError, ...).
func Transport(message string, cause error) error {
	return New(TransportError, message, cause)
}

// Internal is shorthand for New(InternalError, ...).
func Internal(message string, cause error) error {
	return New(InternalError, message, cause)
}

// CategoryOf returns the category of the first TypedError in err's chain.
// Errors without one are reported as InternalError.
func CategoryOf(err error) Category {
	var typed *TypedError
	if errors.As(err, &typed) {
		return typed.Category
	}
	return InternalError
}

// IsCategory reports whether err carries a TypedError of the given category.
func IsCategory(err error, category Category) bool {
	if err == nil {
		return false
	}
	var typed *TypedError
	if !errors.As(err, &typed) {
		return false
	}
	return typed.Category == category
}
