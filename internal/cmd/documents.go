package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/display"
	"github.com/harrison/batchimport/internal/filelock"
)

// NewDocumentsCommand creates the 'batchimport documents' command group
func NewDocumentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "documents",
		Short: "Inspect imported documents",
	}

	cmd.AddCommand(newDocumentsListCommand())
	cmd.AddCommand(newDocumentsDownloadCommand())
	return cmd
}

func newDocumentsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Example: `  batchimport documents list
  batchimport documents list --folder finance/2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadConfigAndStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			folder, _ := cmd.Flags().GetString("folder")
			docs, err := s.ListDocuments(cmd.Context(), folder)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents found")
				return nil
			}

			table := display.NewTable("UID", "FOLDER", "ID", "TYPE", "TITLE", "FILE")
			for _, d := range docs {
				file := ""
				if d.Attachment != nil {
					file = d.Attachment.Filename
				}
				table.AddRow(d.UID, displayPath(d.Container.Path), d.ID, d.TypeName, display.Truncate(d.Title, 40), file)
			}
			return table.Render(out, display.IsTerminal(out))
		},
	}

	cmd.Flags().String("folder", "", "Only list documents of this folder")
	return cmd
}

func newDocumentsDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download <uid>",
		Short: "Write a document's attached file to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadConfigAndStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.GetDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc.Attachment == nil {
				return fmt.Errorf("document %s has no attached file", doc.UID)
			}
			content, err := s.AttachmentContent(cmd.Context(), doc.UID)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = doc.Attachment.Filename
			}
			if info, err := os.Stat(output); err == nil && info.IsDir() {
				output = filepath.Join(output, doc.Attachment.Filename)
			}
			if err := filelock.AtomicWrite(output, content); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", output, len(content))
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file or directory (default: original filename)")
	return cmd
}
