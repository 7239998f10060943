package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/sqlsift/internal/cli/config"
	"github.com/leapstack-labs/sqlsift/internal/index"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables [table]",
		Short: "Query the scan index",
		Long: `List the source tables recorded by the latest scan, or, given a
table name, the files that reference it.`,
		Example: `  # All tables with their file counts
  sqlsift tables -o table

  # Which files read or write events?
  sqlsift tables events`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTables,
	}
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(cmd.Context())

	if _, err := os.Stat(cfg.IndexPath); os.IsNotExist(err) {
		return fmt.Errorf("scan index not found at %s (run 'sqlsift scan' first)", cfg.IndexPath)
	}

	store, err := index.Open(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		files, err := store.FilesReferencing(ctx, args[0])
		if err != nil {
			return err
		}
		return renderFiles(out, cfg.OutputFormat, files)
	}

	usages, err := store.Tables(ctx)
	if err != nil {
		return err
	}
	return renderUsage(out, cfg.OutputFormat, usages)
}
