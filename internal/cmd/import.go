package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/batchimport/internal/importer"
	"github.com/harrison/batchimport/internal/logger"
)

// NewImportCommand creates the single-file import command
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a single file as a document",
		Long: `Create one document from one file, with the file attached as "Scanned Mail".

The document id is the normalized filename. Without --portal-type the type
is derived from the filename code. Incoming mail (dmsincomingmail) gets the
next internal reference number and a reception date.

The source file is left in place.

Examples:
  batchimport import scan.pdf --portal-type dmsincomingmail --location mail/2024
  batchimport import A1-Invoice.pdf --title "March invoice"`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("title", "", "Document title (default: the document id)")
	cmd.Flags().String("portal-type", "", "Document type (default: derived from the filename code)")
	cmd.Flags().String("location", "", "Target folder path (default: root folder)")
	cmd.Flags().String("owner", "", "Creator recorded on the document (default: current user)")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, s, err := loadConfigAndStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	path := args[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	title, _ := cmd.Flags().GetString("title")
	portalType, _ := cmd.Flags().GetString("portal-type")
	location, _ := cmd.Flags().GetString("location")
	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		owner = currentUser()
	}

	log := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	fi := importer.NewFileImporter(s, cfg.Settings(), log)

	doc, err := fi.Import(cmd.Context(), importer.FileRequest{
		Filename:   filepath.Base(path),
		Content:    content,
		Title:      title,
		PortalType: portalType,
		Location:   location,
		Owner:      owner,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q\n", doc.TypeName, doc.Title)
	fmt.Fprintf(cmd.OutOrStdout(), "  ID:  %s\n", doc.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  UID: %s\n", doc.UID)
	if ref, ok := doc.Fields["internal_reference_no"]; ok {
		fmt.Fprintf(cmd.OutOrStdout(), "  Reference: %s\n", ref)
	}
	return nil
}

// currentUser returns the OS user name, or "unknown" when it cannot be determined.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
