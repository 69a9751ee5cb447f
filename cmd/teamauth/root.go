package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the teamauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teamauth",
		Short: "teamauth - Team API session manager",
		Long: `teamauth signs a team in to the Team API, keeps the session token in a
credential store, and restores the session on every run.`,
		SilenceUsage: true,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/teamauth/config.yaml)")

	// Overrides for config keys; only flags set on the command line apply
	flags := cmd.PersistentFlags()
	flags.String("api-url", "", "Team API root URL")
	flags.Duration("api-timeout", 0, "per-request timeout (0 = none)")
	flags.String("store", "", "credential store backend (file, memory, redis, sqlite, postgres)")
	flags.String("store-path", "", "token file or SQLite database path")
	flags.String("redis-addr", "", "Redis address for the redis backend")
	flags.String("postgres-dsn", "", "PostgreSQL DSN for the postgres backend")
	flags.Int("restore-retries", 0, "retries for network failures during session restore")
	flags.String("log-format", "", "log format (json or text)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProfileCmd())
	cmd.AddCommand(newMaterialsCmd())
	cmd.AddCommand(newContactCmd())
	cmd.AddCommand(newMessagesCmd())
	cmd.AddCommand(newTeamCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newStoreCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}
