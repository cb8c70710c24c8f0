// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the maxctrl command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/openchoreo/maxctrl/internal/alter"
	"github.com/openchoreo/maxctrl/internal/client"
	"github.com/openchoreo/maxctrl/internal/config"
	"github.com/openchoreo/maxctrl/internal/logging"
)

// Dependencies are the collaborators the commands need at run time.
type Dependencies struct {
	// NewClient builds the REST client from the resolved configuration.
	NewClient func(cfg *config.Config) (alter.Client, error)
	// ReadPassword prompts for the password when --ask-password is set.
	ReadPassword func(prompt string) (string, error)
}

// DefaultDependencies wires the HTTP client and a terminal password prompt.
func DefaultDependencies() Dependencies {
	return Dependencies{
		NewClient: func(cfg *config.Config) (alter.Client, error) {
			return client.New(client.Options{
				BaseURL:  cfg.URL,
				User:     cfg.User,
				Password: cfg.Password,
				Timeout:  cfg.Timeout,
			})
		},
		ReadPassword: readTerminalPassword,
	}
}

// rootOptions is the state shared by every command in one invocation.
type rootOptions struct {
	deps        Dependencies
	configFile  string
	askPassword bool
	cfg         *config.Config
}

// NewRootCommand builds the maxctrl command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	opts := &rootOptions{deps: deps}

	root := &cobra.Command{
		Use:           "maxctrl",
		Short:         "Administer MaxScale through its REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyURL, config.DefaultURL, "MaxScale REST API base URL")
	flags.StringP(config.KeyUser, "u", config.DefaultUser, "Username for the REST API")
	flags.StringP(config.KeyPassword, "p", config.DefaultPass, "Password for the REST API")
	flags.Duration(config.KeyTimeout, config.DefaultWait, "Request timeout")
	flags.IntP(config.KeyVerbosity, "v", 0, "Log verbosity (1: requests, 2: diffs, 3: timestamps)")
	flags.Bool(config.KeyNoColor, false, "Disable colored status output")
	flags.StringVar(&opts.configFile, "config", "", "YAML config file (default $"+config.EnvConfig+")")
	flags.BoolVar(&opts.askPassword, "ask-password", false, "Read the password from the terminal")

	root.AddCommand(newAlterCommand(opts))
	return root
}

// load resolves the configuration and installs the logger in the command context.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{File: o.configFile, Flags: cmd.Flags()})
	if err != nil {
		return err
	}
	if o.askPassword {
		if o.deps.ReadPassword == nil {
			return fmt.Errorf("password prompt is not available")
		}
		password, err := o.deps.ReadPassword("Password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		cfg.Password = password
	}
	o.cfg = cfg

	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbosity).WithName("maxctrl")
	cmd.SetContext(logr.NewContext(cmd.Context(), logger))
	return nil
}

func (o *rootOptions) client() (alter.Client, error) {
	if o.deps.NewClient == nil {
		return nil, fmt.Errorf("no REST client configured")
	}
	return o.deps.NewClient(o.cfg)
}

func readTerminalPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("stdin is not a terminal")
	}
	_, _ = fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(password), nil
}
