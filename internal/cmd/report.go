package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/config"
	"github.com/harrison/batchimport/internal/report"
)

// NewReportCommand creates the 'batchimport report' command
func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Render the report of a recorded run",
		Long: `Render a recorded run as Markdown, HTML, JSON or CSV.

Without --output the report is printed to stdout. With --output the file
is written atomically into that directory as run-<id>.<ext>.

Examples:
  batchimport report 12
  batchimport report 12 --format html --output ./reports`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().StringP("format", "f", report.FormatMarkdown, "Report format: markdown (or md), html, json, csv")
	cmd.Flags().StringP("output", "o", "", "Output directory (empty for stdout)")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || runID <= 0 {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	format, _ := cmd.Flags().GetString("format")
	format, err = report.ParseFormat(format)
	if err != nil {
		return err
	}

	_, s, err := loadConfigAndStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	record, err := s.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	r := report.FromRecord(record)

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		content, err := report.ExportToString(r, format)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), content)
		return nil
	}

	dir, err := config.ResolvePath(output)
	if err != nil {
		return err
	}
	paths, err := report.WriteFiles(r, dir, format)
	if err != nil {
		return fmt.Errorf("export to file failed: %w", err)
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to: %s\n", p)
	}
	return nil
}
