package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// IncomingMailType is the document type numbered on import.
const IncomingMailType = "dmsincomingmail"

// ScannedMailTitle is the title of attachments created by a single-file import.
const ScannedMailTitle = "Scanned Mail"

// FileRequest is one file handed to the single-file importer.
type FileRequest struct {
	Filename   string // Original filename, used for the id and the attachment
	Content    []byte
	Title      string // Optional, defaults to the document id
	PortalType string // Optional, derived from the filename code when empty
	Location   string // Slash separated folder path, "" for the root container
	Owner      string // Recorded creator
}

// FileImporter creates one document from one uploaded file.
type FileImporter struct {
	repo     Repository
	settings models.ImportSettings
	logger   Logger
	now      func() time.Time
}

// NewFileImporter creates a single-file importer. settings supplies the
// code mapping used when a request carries no portal type.
func NewFileImporter(repo Repository, settings models.ImportSettings, logger Logger) *FileImporter {
	if logger == nil {
		logger = nopLogger{}
	}
	return &FileImporter{repo: repo, settings: settings, logger: logger, now: time.Now}
}

// Import creates the document and its "Scanned Mail" attachment.
// The attachment is undone with the document when it cannot be stored.
func (f *FileImporter) Import(ctx context.Context, req FileRequest) (models.Document, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return models.Document{}, berrors.NewConfigurationError("file", "", "filename must not be empty", nil)
	}

	container, err := f.repo.ResolveLocation(ctx, req.Location)
	if err != nil {
		return models.Document{}, err
	}

	typeName := strings.TrimSpace(req.PortalType)
	if typeName == "" {
		code, _ := SplitCode(req.Filename)
		var ok bool
		typeName, ok = f.settings.TypeForCode(code)
		if !ok {
			return models.Document{}, &berrors.UnknownCodeError{Code: code, Filename: req.Filename}
		}
	}

	id := NormalizeID(stem(req.Filename))
	if id == "" {
		return models.Document{}, berrors.NewConfigurationError("file", req.Filename, "filename yields an empty identifier", nil)
	}
	exists, err := f.repo.DocumentExists(ctx, container, id)
	if err != nil {
		return models.Document{}, err
	}
	if exists {
		return models.Document{}, &berrors.DuplicateDocumentError{DocumentID: id, Container: container.Path}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = id
	}

	fields, err := f.typeFields(ctx, typeName)
	if err != nil {
		return models.Document{}, err
	}

	doc, err := f.repo.CreateDocument(ctx, container, models.DocumentRequest{
		ID:       id,
		TypeName: typeName,
		Title:    title,
		Owner:    req.Owner,
		Fields:   fields,
	})
	if err != nil {
		return models.Document{}, err
	}

	attachment, err := f.repo.AttachFile(ctx, doc, models.FileUpload{
		Filename: req.Filename,
		Title:    ScannedMailTitle,
		Content:  req.Content,
	})
	if err != nil {
		attachErr := &berrors.AttachmentError{DocumentID: id, Filename: req.Filename, Err: err}
		if delErr := f.repo.DeleteDocument(ctx, doc); delErr != nil {
			attachErr.CleanupErr = delErr
		}
		return models.Document{}, attachErr
	}
	doc.Attachment = &attachment

	f.logger.LogInfo(fmt.Sprintf("Imported %s as %s %q in %q", req.Filename, typeName, title, container.Path))
	return doc, nil
}

// typeFields returns the defaults a document type is created with.
func (f *FileImporter) typeFields(ctx context.Context, typeName string) (map[string]string, error) {
	if typeName != IncomingMailType {
		return nil, nil
	}

	counter, ok := f.repo.(TypeCounter)
	if !ok {
		return nil, fmt.Errorf("repository cannot number %s documents", IncomingMailType)
	}
	count, err := counter.CountDocumentsByType(ctx, IncomingMailType)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"internal_reference_no": fmt.Sprintf("in/%d", count+1),
		"reception_date":        f.now().Format(time.RFC3339),
	}, nil
}
