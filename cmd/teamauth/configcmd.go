// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"net/url"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/internal/xdg"
)

const redacted = "[REDACTED]"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigValidateCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	return cmd
}

// configShowConfig holds flags for config show.
type configShowConfig struct {
	jsonOutput bool
}

func newConfigShowCmd() *cobra.Command {
	cfg := &configShowConfig{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults, the config file and flags are merged. Secrets are redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			effective, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			shown := redactConfig(*effective)
			if cfg.jsonOutput {
				return printJSON(cmd.OutOrStdout(), shown)
			}
			data, err := yaml.Marshal(shown)
			if err != nil {
				return oops.Code("CONFIG_MARSHAL_FAILED").Wrap(err)
			}
			cmd.Print(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output as JSON")

	return cmd
}

// redactConfig hides the Redis password and any password in the Postgres DSN.
func redactConfig(c config.Config) config.Config {
	if c.Store.Redis.Password != "" {
		c.Store.Redis.Password = redacted
	}
	if u, err := url.Parse(c.Store.Postgres.DSN); err == nil && u.User != nil {
		if _, ok := u.User.Password(); ok {
			c.Store.Postgres.DSN = u.Redacted()
		}
	}
	return c
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a config file",
		Long: `Check a config file against the schema and the cross-field rules.
Without an argument the --config path or the XDG default is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				var err error
				if path, err = xdg.ConfigFile(); err != nil {
					return oops.Code("CONFIG_PATH_FAILED").Wrap(err)
				}
			}
			if _, err := os.Stat(path); err != nil {
				return oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrap(err)
			}
			if _, err := config.Load(path, nil); err != nil {
				return err
			}
			cmd.Printf("%s: valid\n", path)
			return nil
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the config file JSON Schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := config.GenerateSchema()
			if err != nil {
				return oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
			}
			cmd.Println(string(schema))
			return nil
		},
	}
}
