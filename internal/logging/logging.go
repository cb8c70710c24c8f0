// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging builds the logr.Logger used by the CLI.
package logging

import (
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Verbosity levels used across maxctrl.
const (
	// LevelRequest traces REST requests and command progress.
	LevelRequest = 1
	// LevelDiff adds document diffs.
	LevelDiff = 2
	// LevelTimestamps adds timestamps to every line.
	LevelTimestamps = 3
)

// New returns a logger that writes key/value lines to w. V(n).Info lines are
// emitted for n <= verbosity; errors are always emitted.
func New(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 0 {
		verbosity = 0
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{
		Verbosity:    verbosity,
		LogTimestamp: verbosity >= LevelTimestamps,
	})
}
