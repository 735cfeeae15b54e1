// Package importer turns files dropped in a directory tree into documents.
//
// A batch run is split in two phases. Plan walks the source tree, pairs
// data files with their .metadata sidecars, classifies each file by the
// code in its name and checks every lookup against the repository without
// changing anything. Execute then creates documents, attaches the raw
// files and moves imported files into the processed tree.
//
// Files that fail any step stay where they are and are counted as failed;
// a failing file never stops the run.
package importer

import (
	"context"

	"github.com/harrison/batchimport/internal/models"
)

// Repository is the document store the importer writes into.
type Repository interface {
	// ResolveLocation maps a slash separated folder path to its container.
	// It fails with an UnknownLocationError when a segment does not exist.
	ResolveLocation(ctx context.Context, folderPath string) (models.Container, error)

	// DocumentExists reports whether documentID is taken in container.
	DocumentExists(ctx context.Context, container models.Container, documentID string) (bool, error)

	// CreateDocument creates a document in container.
	CreateDocument(ctx context.Context, container models.Container, req models.DocumentRequest) (models.Document, error)

	// AttachFile stores the raw file as the document's main file.
	AttachFile(ctx context.Context, doc models.Document, file models.FileUpload) (models.Attachment, error)

	// DeleteDocument removes a document, used to undo a failed attachment.
	DeleteDocument(ctx context.Context, doc models.Document) error
}

// TypeCounter is implemented by repositories able to count documents per type.
// The single-file importer uses it to number incoming mail.
type TypeCounter interface {
	CountDocumentsByType(ctx context.Context, typeName string) (int, error)
}

// Logger receives progress and per-file outcomes.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogOutcome(outcome models.ImportOutcome)
	LogProgress(current, total int)
	LogSummary(summary models.RunSummary)
}
