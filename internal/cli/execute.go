// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"os"
	"strings"

	"github.com/openchoreo/maxctrl/internal/faults"
)

// Execute runs the command tree with os.Args and reports failures on stderr.
func Execute(ctx context.Context, deps Dependencies) error {
	root := NewRootCommand(deps)
	if err := execute(ctx, root, os.Args[1:]); err != nil {
		writeStatus(root.ErrOrStderr(), noColorRequested(os.Args[1:]), statusError, strings.TrimSpace(err.Error()))
		return err
	}
	return nil
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch faults.CategoryOf(err) {
	case faults.ValidationError:
		return 2
	case faults.NotFoundError:
		return 3
	case faults.AuthError:
		return 4
	case faults.ConflictError:
		return 5
	case faults.TransportError:
		return 6
	default:
		return 1
	}
}

// noColorRequested inspects raw arguments because the error may come from
// flag parsing, before any configuration was resolved.
func noColorRequested(args []string) bool {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		return true
	}
	for _, arg := range args {
		if arg == "--" {
			break
		}
		if arg == "--no-color" {
			return true
		}
		if value, ok := strings.CutPrefix(arg, "--no-color="); ok {
			return value != "false"
		}
	}
	return false
}
