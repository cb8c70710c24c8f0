// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/openchoreo/maxctrl/internal/alter"
	"github.com/openchoreo/maxctrl/internal/logging"
)

// UnknownAlterCommand is printed for any alter subcommand that is not defined.
const UnknownAlterCommand = "Unknown command. See output of `help alter` for a list of commands."

type alterOptions struct {
	root   *rootOptions
	dryRun bool
	output string
}

func newAlterCommand(root *rootOptions) *cobra.Command {
	opts := &alterOptions{root: root}

	cmd := &cobra.Command{
		Use:   "alter <command>",
		Short: "Alter objects",
		Long: `Alter objects.

Values that start with "-" other than plain negative numbers must follow "--",
for example: maxctrl alter server db1 -- key -value`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			logr.FromContextOrDiscard(cmd.Context()).V(logging.LevelRequest).Info("Ignoring unknown alter command", "command", args[0])
			_, err := fmt.Fprintln(cmd.OutOrStdout(), UnknownAlterCommand)
			return err
		},
	}
	cmd.PersistentFlags().BoolVar(&opts.dryRun, "dry-run", false, "Print the update instead of sending it")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON,
		"Dry-run output format: json, yaml, json-patch or merge-patch")

	cmd.AddCommand(
		opts.newObjectCommand(alter.KindServer, "server <server> <key> <value>", "Alter server parameters"),
		opts.newObjectCommand(alter.KindMonitor, "monitor <monitor> <key> <value>", "Alter monitor parameters"),
		opts.newObjectCommand(alter.KindService, "service <service> <key> <value>", "Alter service parameters"),
		&cobra.Command{
			Use:   "maxscale <key> <value>",
			Short: "Alter MaxScale parameters",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.run(cmd, alter.Command{Kind: alter.KindMaxScale, Key: args[0], Value: args[1]})
			},
		},
	)
	return cmd
}

func (o *alterOptions) newObjectCommand(kind alter.ResourceKind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, alter.Command{Kind: kind, ID: args[0], Key: args[1], Value: args[2]})
		},
	}
}

func (o *alterOptions) run(cmd *cobra.Command, command alter.Command) error {
	if !validOutput(o.output) {
		return invalidOutput(o.output)
	}
	// Validate before building a client so bad input never reaches the network.
	if _, err := alter.Plan(command); err != nil {
		return err
	}

	c, err := o.root.client()
	if err != nil {
		return err
	}

	alterer := &alter.Alterer{Client: c, DryRun: o.dryRun}
	result, err := alterer.Run(cmd.Context(), command)
	if err != nil {
		return err
	}

	if o.dryRun {
		return writeDryRun(cmd.OutOrStdout(), o.output, command, result)
	}
	writeStatus(cmd.OutOrStdout(), o.root.cfg.NoColor, statusOK,
		fmt.Sprintf("%s updated: %s = %s", result.Request.ResourcePath, command.Key, command.Value))
	return nil
}
