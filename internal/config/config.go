// Copyright 2025 The OpenChoreo Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves maxctrl settings from defaults, an optional YAML
// file, MAXCTRL_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/openchoreo/maxctrl/internal/faults"
)

const (
	EnvPrefix    = "MAXCTRL_"
	EnvConfig    = EnvPrefix + "CONFIG"
	DefaultURL   = "http://127.0.0.1:8989/v1"
	DefaultUser  = "admin"
	DefaultPass  = "mariadb"
	DefaultWait  = 10 * time.Second
	keyDelimiter = "."
)

// Flag names shared with the CLI. Each one doubles as the koanf key.
const (
	KeyURL       = "url"
	KeyUser      = "user"
	KeyPassword  = "password"
	KeyTimeout   = "timeout"
	KeyVerbosity = "verbosity"
	KeyNoColor   = "no-color"
)

// Config holds the resolved settings.
type Config struct {
	URL       string        `koanf:"url"`
	User      string        `koanf:"user"`
	Password  string        `koanf:"password"`
	Timeout   time.Duration `koanf:"timeout"`
	Verbosity int           `koanf:"verbosity"`
	NoColor   bool          `koanf:"no-color"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		KeyURL:       DefaultURL,
		KeyUser:      DefaultUser,
		KeyPassword:  DefaultPass,
		KeyTimeout:   DefaultWait.String(),
		KeyVerbosity: 0,
		KeyNoColor:   false,
	}
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// File is a YAML config file. When empty, $MAXCTRL_CONFIG is used if set.
	File string
	// Flags are applied last; only flags the user changed override other sources.
	Flags *pflag.FlagSet
}

// Load merges all configured sources and validates the result.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(keyDelimiter)

	if err := k.Load(confmap.Provider(Defaults(), keyDelimiter), nil); err != nil {
		return nil, faults.Internal("failed to load defaults", err)
	}

	path := opts.File
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, faults.Validation(fmt.Sprintf("config file %s does not exist", path), err)
			}
			return nil, faults.Validation(fmt.Sprintf("failed to read config file %s", path), err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, keyDelimiter, envKey), nil); err != nil {
		return nil, faults.Internal("failed to load environment", err)
	}

	if opts.Flags != nil {
		if err := k.Load(posflag.Provider(opts.Flags, keyDelimiter, k), nil); err != nil {
			return nil, faults.Internal("failed to load flags", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, faults.Validation("invalid configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	parsed, err := url.Parse(strings.TrimSpace(c.URL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return faults.Validation(fmt.Sprintf("url %q must be an absolute http or https URL", c.URL), err)
	}
	if c.Timeout <= 0 {
		return faults.Validation(fmt.Sprintf("timeout must be positive, got %s", c.Timeout), nil)
	}
	if c.Verbosity < 0 {
		return faults.Validation(fmt.Sprintf("verbosity must not be negative, got %d", c.Verbosity), nil)
	}
	return nil
}

// envKey maps MAXCTRL_NO_COLOR to "no-color". MAXCTRL_CONFIG selects the
// file rather than a setting and is skipped.
func envKey(key, value string) (string, any) {
	if key == EnvConfig {
		return "", nil
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "_", "-"), value
}
