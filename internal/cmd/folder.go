package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/display"
)

// NewFolderCommand creates the 'batchimport folder' command group
func NewFolderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage repository folders",
		Long: `Manage the folders documents are imported into.

A file found in <source>/finance/2024 is imported into the folder
"finance/2024", which must exist beforehand.`,
	}

	cmd.AddCommand(newFolderAddCommand())
	cmd.AddCommand(newFolderListCommand())
	return cmd
}

func newFolderAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Create a folder",
		Example: `  batchimport folder add finance
  batchimport folder add finance/2024/q1 --parents`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadConfigAndStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			title, _ := cmd.Flags().GetString("title")
			parents, _ := cmd.Flags().GetBool("parents")

			c, err := s.AddContainer(cmd.Context(), args[0], title, parents)
			if err != nil {
				return fmt.Errorf("add folder: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Folder %q ready (%s)\n", c.Path, c.Title)
			return nil
		},
	}

	cmd.Flags().String("title", "", "Folder title (default: last path segment)")
	cmd.Flags().BoolP("parents", "p", false, "Create missing parent folders; no error if the folder exists")
	return cmd
}

func newFolderListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadConfigAndStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			containers, err := s.ListContainers(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := display.NewTable("PATH", "TITLE")
			for _, c := range containers {
				table.AddRow(displayPath(c.Path), c.Title)
			}
			return table.Render(out, display.IsTerminal(out))
		},
	}
}

// displayPath shows the root folder as "/".
func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
