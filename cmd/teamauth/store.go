// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/internal/credstore"
)

// SchemaMigrator wraps the methods used by store migrate from credstore.Migrator.
type SchemaMigrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Force(version int) error
	Pending() ([]uint, error)
	Close() error
}

// migratorFactory creates the migrator for a database URL. Tests replace it.
var migratorFactory = func(databaseURL string) (SchemaMigrator, error) {
	return credstore.NewMigrator(databaseURL)
}

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the credential store",
	}
	cmd.AddCommand(newStoreMigrateCmd())
	return cmd
}

func newStoreMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run credential store migrations",
		Long: `Create or update the team_credentials table used by the postgres backend.
The DSN comes from store.postgres.dsn or --postgres-dsn.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m SchemaMigrator) error {
				cmd.Println("Running migrations...")
				if err := m.Up(); err != nil {
					return err
				}
				version, _, err := m.Version()
				if err != nil {
					return err
				}
				cmd.Printf("Migrations completed successfully (version %d)\n", version)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m SchemaMigrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				pending, err := m.Pending()
				if err != nil {
					return err
				}
				state := "clean"
				if dirty {
					state = "dirty"
				}
				cmd.Printf("Version: %d (%s)\n", version, state)
				if len(pending) == 0 {
					cmd.Println("Pending: none")
				} else {
					cmd.Printf("Pending: %s\n", joinVersions(pending))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Drop the credentials table",
		Long:  `Roll back every migration. Any stored token is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m SchemaMigrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				cmd.Println("Migrations rolled back")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Mark a version as applied without running it",
		Long:  `Record a migration version as applied. Use it to recover a dirty database.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseForceVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(cmd, func(m SchemaMigrator) error {
				if err := m.Force(version); err != nil {
					return err
				}
				cmd.Printf("Forced version %d\n", version)
				return nil
			})
		},
	})

	return cmd
}

// withMigrator runs fn against the configured Postgres database.
func withMigrator(cmd *cobra.Command, fn func(SchemaMigrator) error) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return err
	}
	m, err := migratorFactory(dsn)
	if err != nil {
		return oops.Code("MIGRATION_INIT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(m)
}

// postgresDSN returns the configured DSN.
func postgresDSN(cfg *config.Config) (string, error) {
	if cfg.Store.Postgres.DSN == "" {
		return "", oops.Code("CONFIG_INVALID").
			With("key", "store.postgres.dsn").
			Errorf("store.postgres.dsn or --postgres-dsn is required")
	}
	return cfg.Store.Postgres.DSN, nil
}

// parseForceVersion parses a migration version argument.
func parseForceVersion(s string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &version); err != nil {
		return 0, oops.Code("INVALID_VERSION").With("input", s).Errorf("version must be an integer: %q", s)
	}
	return version, nil
}

func joinVersions(versions []uint) string {
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
