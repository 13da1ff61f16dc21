package main

import (
	"github.com/spf13/cobra"
)

// newRootCmd creates the root command. Running it without a subcommand serves
// the API.
func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:           "helpdesk",
		Short:         "Helpdesk automation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.AddCommand(
		serve,
		newMigrateCmd(),
		newIngestCmd(),
	)
	return cmd
}
