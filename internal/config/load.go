// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/teamauth/internal/xdg"
)

// FlagKeys maps command-line flag names to configuration keys.
// Flags not listed here are never merged into the configuration.
var FlagKeys = map[string]string{
	"api-url":          "api.base_url",
	"api-timeout":      "api.timeout",
	"store":            "store.backend",
	"store-path":       "store.path",
	"redis-addr":       "store.redis.addr",
	"postgres-dsn":     "store.postgres.dsn",
	"restore-retries":  "session.restore_retries",
	"refresh-interval": "session.refresh_interval",
	"log-format":       "log.format",
	"log-level":        "log.level",
	"metrics-addr":     "metrics.addr",
}

// Load builds the configuration from defaults, the YAML file at path and the
// changed flags in fs. An empty path means the XDG default, which may be absent;
// an explicit path must exist.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = xdg.ConfigFile()
		if err != nil {
			return nil, oops.Code("CONFIG_PATH_FAILED").Wrap(err)
		}
	}

	k := koanf.New(".")

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	switch {
	case err == nil:
		if err := ValidateSchema(data); err != nil {
			return nil, oops.Code("CONFIG_SCHEMA_INVALID").
				With("path", path).
				Errorf("%s: %s", path, FormatSchemaError(err))
		}
		if err := k.Load(file.Provider(path), kyaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagValue(flags)), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// flagValue returns the posflag callback that renames mapped flags to their
// config keys and drops everything the user didn't set.
func flagValue(flags *pflag.FlagSet) func(f *pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		key, ok := FlagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		switch f.Value.Type() {
		case "int":
			v, _ := flags.GetInt(f.Name) //nolint:errcheck // type checked above
			return key, v
		case "duration":
			v, _ := flags.GetDuration(f.Name) //nolint:errcheck // type checked above
			return key, v
		case "bool":
			v, _ := flags.GetBool(f.Name) //nolint:errcheck // type checked above
			return key, v
		default:
			return key, strings.TrimSpace(f.Value.String())
		}
	}
}
