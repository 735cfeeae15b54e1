package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for batchimport
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batchimport",
		Short: "Batch import of scanned files into a document repository",
		Long: `Batchimport reconciles a directory tree of dropped files with a document
repository.

Each file is classified by the code before the first "-" in its name,
created as a document in the folder matching its directory, and moved
into a processed tree once imported. Optional <file>.metadata sidecars
carry the title and extra fields.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .batchimport/config.yaml)")

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewImportCommand())
	cmd.AddCommand(NewFolderCommand())
	cmd.AddCommand(NewDocumentsCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewReportCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
