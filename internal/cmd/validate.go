package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/display"
	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/importer"
	"github.com/harrison/batchimport/internal/logger"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and preview the source tree",
		Long: `Validate the configuration, then plan an import without changing anything.

Files that would not be imported are grouped by reason, so unmapped
codes, missing folders and orphan sidecars can be fixed before a run.
The command fails when the configuration is invalid; per-file problems
are only reported.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().String("source", "", "Source tree to check (overrides source_root)")
	cmd.Flags().String("processed", "", "Processed tree (overrides processed_root)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(stringFlag(cmd, "source"), stringFlag(cmd, "processed"), nil, nil, nil)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	settings := cfg.Settings()
	if err := importer.ValidateSettings(settings); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	colorOutput := display.IsTerminal(out)

	fmt.Fprintf(out, "Source:    %s\n", settings.SourceRoot)
	fmt.Fprintf(out, "Processed: %s\n\n", settings.ProcessedRoot)

	codes := make([]string, 0, len(settings.CodeToType))
	for code := range settings.CodeToType {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	mapping := display.NewTable("CODE", "TYPE")
	for _, code := range codes {
		mapping.AddRow(code, settings.CodeToType[code])
	}
	if err := mapping.Render(out, colorOutput); err != nil {
		return err
	}
	fmt.Fprintln(out)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	plan, err := importer.NewReconciler(s, logger.NewNoOpLogger()).Plan(cmd.Context(), settings)
	if err != nil {
		return err
	}

	// Group per-file problems by reason, keeping walk order inside a group
	var reasons []string
	byReason := make(map[string][]string)
	sample := make(map[string]error)
	for _, e := range plan.Entries {
		if e.OK() {
			continue
		}
		reason := berrors.ReasonOf(e.Err)
		if _, seen := byReason[reason]; !seen {
			reasons = append(reasons, reason)
			sample[reason] = e.Err
		}
		byReason[reason] = append(byReason[reason], e.Path())
	}
	for _, reason := range reasons {
		display.Warning{
			Title:      reason,
			Files:      byReason[reason],
			Suggestion: suggestionFor(sample[reason]),
		}.Display(out, colorOutput)
	}
	for _, werr := range plan.WalkErrors {
		display.Warning{Title: "unreadable path", Message: werr.Error()}.Display(out, colorOutput)
	}

	fmt.Fprintf(out, "%d file(s) found, %d ready for import\n", len(plan.Entries), plan.Ready())
	return nil
}

// suggestionFor returns the usual fix for a per-file failure.
func suggestionFor(err error) string {
	switch {
	case errors.Is(err, berrors.ErrUnknownCode):
		return "Add the code to code_to_type_mapping or rename the file"
	case errors.Is(err, berrors.ErrUnknownLocation):
		return "Create the folder with 'batchimport folder add <path> --parents'"
	case errors.Is(err, berrors.ErrDuplicateDocument):
		return "Rename the file; its id is already taken in the target folder"
	case errors.Is(err, berrors.ErrOrphanSidecar):
		return "Restore the data file or remove the sidecar"
	case errors.Is(err, berrors.ErrMetadata):
		return "Fix the sidecar: it must be a flat key-value record"
	case errors.Is(err, berrors.ErrProcessedConflict):
		return "Move the existing file out of the processed tree"
	}
	return ""
}
