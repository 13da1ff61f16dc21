package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"helpdesk-automation/config"
	"helpdesk-automation/internal/checkpoint/repository/sqlite"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the checkpoint database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Checkpoint.Driver != checkpointSQLite {
				fmt.Fprintf(cmd.OutOrStdout(), "checkpoint driver is %q, nothing to migrate\n", cfg.Checkpoint.Driver)
				return nil
			}

			store, err := sqlite.Open(ctx, cfg.Checkpoint.Path, newLogger(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "checkpoint schema applied to %s\n", cfg.Checkpoint.Path)
			return nil
		},
	}
}
