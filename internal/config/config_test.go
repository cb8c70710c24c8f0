// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/openchoreo/maxctrl/internal/faults"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyURL, DefaultURL, "")
	fs.StringP(KeyUser, "u", DefaultUser, "")
	fs.StringP(KeyPassword, "p", DefaultPass, "")
	fs.Duration(KeyTimeout, DefaultWait, "")
	fs.IntP(KeyVerbosity, "v", 0, "")
	fs.Bool(KeyNoColor, false, "")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

func writeConfig(t *testing.T, values map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(values)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "maxctrl.yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")

	cfg, err := Load(LoadOptions{Flags: newFlags(t)})
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	want := &Config{URL: DefaultURL, User: DefaultUser, Password: DefaultPass, Timeout: DefaultWait}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"url":      "https://file.example:8989/v1",
		"user":     "file-user",
		"password": "file-pass",
		"timeout":  "30s",
	})
	t.Setenv(EnvConfig, "")
	t.Setenv("MAXCTRL_USER", "env-user")
	t.Setenv("MAXCTRL_VERBOSITY", "2")
	t.Setenv("MAXCTRL_NO_COLOR", "true")

	cfg, err := Load(LoadOptions{
		File:  path,
		Flags: newFlags(t, "--password", "flag-pass"),
	})
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	want := &Config{
		URL:       "https://file.example:8989/v1",
		User:      "env-user",
		Password:  "flag-pass",
		Timeout:   30 * time.Second,
		Verbosity: 2,
		NoColor:   true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileFromEnvironment(t *testing.T) {
	path := writeConfig(t, map[string]any{"url": "http://10.0.0.5:8989/v1"})
	t.Setenv(EnvConfig, path)

	cfg, err := Load(LoadOptions{})
	if err != nil {
		t.Fatalf("Load error = %v", err)
	}
	if cfg.URL != "http://10.0.0.5:8989/v1" {
		t.Fatalf("URL = %q", cfg.URL)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv(EnvConfig, "")

	tests := []struct {
		name string
		opts func(t *testing.T) LoadOptions
	}{
		{
			name: "missing file",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{File: filepath.Join(t.TempDir(), "absent.yaml")}
			},
		},
		{
			name: "relative url",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{Flags: newFlags(t, "--url", "localhost/v1")}
			},
		},
		{
			name: "zero timeout",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{Flags: newFlags(t, "--timeout", "0s")}
			},
		},
		{
			name: "negative verbosity",
			opts: func(t *testing.T) LoadOptions {
				return LoadOptions{Flags: newFlags(t, "--verbosity=-1")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts(t))
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
