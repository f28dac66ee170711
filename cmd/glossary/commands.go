package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/glossary-core/internal/infrastructure/logging"
)

// newRootCmd builds the CLI. Running it without a subcommand serves the API.
func newRootCmd() *cobra.Command {
	var configFile string

	serve := func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context(), configFile)
	}

	root := &cobra.Command{
		Use:           "glossary",
		Short:         "Glossary Core serves a glossary of terms over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $"+configEnvVar+" or "+defaultConfigPath+")")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})
	root.AddCommand(newSchemaCmd(&configFile))
	root.AddCommand(newVersionCmd())

	return root
}

// newSchemaCmd applies the embedded schema and prints its status.
func newSchemaCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create the database schema if absent and show its status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, explicit := getConfigPath(*configFile)
			cfg, err := loadConfig(path, explicit)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg, logging.New(cfg.Logging, version))
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // Read-only from here on

			applied, pending, err := db.GetMigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("reading schema status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "database: %s\n", db.Path())
			for _, m := range applied {
				fmt.Fprintf(out, "applied  %s  %s\n", m.Version, m.AppliedAt.Format("2006-01-02 15:04:05"))
			}
			for _, m := range pending {
				fmt.Fprintf(out, "pending  %s  %s\n", m.Version, m.Name)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "glossary %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
