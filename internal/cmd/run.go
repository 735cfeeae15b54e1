package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/config"
	"github.com/harrison/batchimport/internal/importer"
	"github.com/harrison/batchimport/internal/logger"
	"github.com/harrison/batchimport/internal/report"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import every pending file of the source tree",
		Long: `Walk the source tree and import every data file whose code is mapped
to a document type.

Imported files (and their .metadata sidecars) are moved into the processed
tree under the same relative path. Files that cannot be imported stay in
place and are listed in the summary. Hidden files and directories are
ignored.

Configuration is loaded from .batchimport/config.yaml if present, then
from .env and BATCHIMPORT_* environment variables.
CLI flags override configuration file settings.

Examples:
  batchimport run
  batchimport run --source /srv/scans/incoming --processed /srv/scans/processed
  batchimport run --dry-run --verbose       # Show the plan without importing
  batchimport run --report-dir ./reports    # Write Markdown and HTML reports`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	cmd.Flags().String("source", "", "Source tree to import from (overrides source_root)")
	cmd.Flags().String("processed", "", "Tree receiving imported files (overrides processed_root)")
	cmd.Flags().Bool("dry-run", false, "Plan the import without creating documents or moving files")
	cmd.Flags().Bool("verbose", false, "Show detailed progress")
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().String("report-dir", "", "Directory receiving run reports")
	cmd.Flags().StringSlice("report-format", []string{report.FormatMarkdown, report.FormatHTML},
		"Report formats: markdown (or md), html, json, csv")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var dryRunPtr *bool
	if cmd.Flags().Changed("dry-run") {
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		dryRunPtr = &dryRun
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(
		stringFlag(cmd, "source"),
		stringFlag(cmd, "processed"),
		stringFlag(cmd, "log-dir"),
		stringFlag(cmd, "report-dir"),
		dryRunPtr,
	)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	formats, _ := cmd.Flags().GetStringSlice("report-format")
	for _, f := range formats {
		if _, err := report.ParseFormat(f); err != nil {
			return err
		}
	}

	// Checked before the store and log files are created
	if err := importer.ValidateSettings(cfg.Settings()); err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}

	// Determine log level: verbose flag overrides config
	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	logDir, err := config.ResolvePath(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("resolve log_dir: %w", err)
	}
	fileLog, err := logger.NewFileLogger(logDir, logLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)
	multiLog := logger.NewMultiLogger(consoleLog, fileLog)

	multiLog.LogDebug(fmt.Sprintf("Document store: %s", s.Path()))

	ctx := cmd.Context()
	reconciler := importer.NewReconciler(s, multiLog)
	summary, err := reconciler.Run(ctx, cfg.Settings())
	if err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}

	if !summary.DryRun {
		runID, err := s.RecordRun(ctx, summary)
		if err != nil {
			// The files are already moved; losing the history entry is not fatal
			multiLog.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
		} else {
			summary.RunID = runID
		}
	}

	if cfg.ReportDir != "" {
		reportDir, err := config.ResolvePath(cfg.ReportDir)
		if err != nil {
			return fmt.Errorf("resolve report_dir: %w", err)
		}
		paths, err := report.WriteFiles(report.FromSummary(summary), reportDir, formats...)
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to: %s\n", p)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logs written to: %s\n", fileLog.RunFile())
	return nil
}
