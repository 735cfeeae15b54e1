package models

import "time"

// Container is a location in the content hierarchy able to hold documents.
type Container struct {
	ID    int64  // Repository row id
	Path  string // Slash separated path, "" for the root container
	Title string
}

// Document is a managed document created by an import.
type Document struct {
	UID        string            // Globally unique identifier
	ID         string            // Identifier unique within its container
	Container  Container         // Owning container
	TypeName   string            // Content type name
	Title      string            // Display title
	Owner      string            // Creator user name
	Fields     map[string]string // Extra attributes (sidecar metadata, type defaults)
	CreatedAt  time.Time
	Attachment *Attachment // Main file, nil until attached
}

// Attachment is the main file resource stored under a document.
type Attachment struct {
	UID      string
	Filename string
	Title    string
	Size     int64
}

// RunRecord is a persisted summary of a finished import run.
type RunRecord struct {
	ID         int64
	SourceRoot string
	StartedAt  time.Time
	FinishedAt time.Time
	Imported   int
	Failed     int
	Skipped    int
	Failures   []ImportOutcome // Only Path, Reason and Status are persisted
}

// DocumentRequest describes a document to create in a container.
type DocumentRequest struct {
	ID       string            // Identifier, unique within the container
	TypeName string            // Content type name
	Title    string            // Display title
	Owner    string            // Creator user name, may be empty
	Fields   map[string]string // Extra attributes
}

// FileUpload is the raw content attached to a document as its main file.
type FileUpload struct {
	Filename string
	Title    string // Defaults to Filename when empty
	Content  []byte
}
