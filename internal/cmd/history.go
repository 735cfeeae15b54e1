package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/display"
)

// NewHistoryCommand creates the 'batchimport history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded import runs",
		Long: `List past import runs, most recent first.

Dry runs are not recorded. Use 'batchimport report <id>' for the files a
run could not import.`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 = all)")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, s, err := loadConfigAndStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No import runs recorded")
		return nil
	}

	table := display.NewTable("ID", "STARTED", "DURATION", "IMPORTED", "FAILED", "SKIPPED", "SOURCE")
	for _, r := range runs {
		var style *color.Color
		if r.Failed > 0 {
			style = color.New(color.FgRed)
		}
		table.AddStyledRow(style,
			strconv.FormatInt(r.ID, 10),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
			strconv.Itoa(r.Imported),
			strconv.Itoa(r.Failed),
			strconv.Itoa(r.Skipped),
			r.SourceRoot,
		)
	}
	return table.Render(out, display.IsTerminal(out))
}
