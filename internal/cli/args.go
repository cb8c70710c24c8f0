// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// negativeNumber matches values such as "-1" or "-0.5" that pflag would
// otherwise read as shorthand flags.
var negativeNumber = regexp.MustCompile(`^-[0-9]+(\.[0-9]+)?$`)

// execute runs root with args after moving negative positional values behind
// "--" so they reach the command as arguments.
func execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(protectNegativeValues(args, valueFlags(root)))
	return root.ExecuteContext(ctx)
}

// protectNegativeValues keeps flags and their values in place and moves the
// positional arguments from the first negative number onwards after "--".
// The relative order of positional arguments is preserved.
func protectNegativeValues(args []string, takesValue map[string]bool) []string {
	var head, tail []string
	expectValue, moving := false, false
	for i, arg := range args {
		if expectValue {
			head = append(head, arg)
			expectValue = false
			continue
		}
		if arg == "--" {
			tail = append(tail, args[i+1:]...)
			break
		}
		if negativeNumber.MatchString(arg) || (moving && !strings.HasPrefix(arg, "-")) {
			tail = append(tail, arg)
			moving = true
			continue
		}
		head = append(head, arg)
		if strings.HasPrefix(arg, "-") && !strings.Contains(arg, "=") && takesValue[arg] {
			expectValue = true
		}
	}
	if !moving {
		return args
	}
	out := make([]string, 0, len(head)+len(tail)+1)
	out = append(out, head...)
	out = append(out, "--")
	return append(out, tail...)
}

// valueFlags lists the spellings ("--name" and "-n") of every flag in the
// command tree that consumes the following argument.
func valueFlags(root *cobra.Command) map[string]bool {
	names := map[string]bool{}
	record := func(f *pflag.Flag) {
		if f.NoOptDefVal != "" {
			return
		}
		names["--"+f.Name] = true
		if f.Shorthand != "" {
			names["-"+f.Shorthand] = true
		}
	}
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.PersistentFlags().VisitAll(record)
		c.Flags().VisitAll(record)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(root)
	return names
}
