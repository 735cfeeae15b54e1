// Package errors provides the typed error kinds of the batch importer.
// Each kind matches a sentinel through errors.Is and carries a short
// reason used in per-file outcomes.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below
var (
	// ErrConfiguration aborts a run before any file system mutation
	ErrConfiguration = errors.New("configuration error")

	// ErrUnknownLocation indicates a target folder segment did not resolve
	ErrUnknownLocation = errors.New("unknown location")

	// ErrUnknownCode indicates a filename code has no document type mapping
	ErrUnknownCode = errors.New("unknown code")

	// ErrDuplicateDocument indicates a document id is taken in its container
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrOrphanSidecar indicates a sidecar whose data file is missing
	ErrOrphanSidecar = errors.New("orphan sidecar")

	// ErrMetadata indicates a sidecar that could not be parsed
	ErrMetadata = errors.New("invalid metadata")

	// ErrProcessedConflict indicates the processed tree already holds the destination
	ErrProcessedConflict = errors.New("processed file conflict")

	// ErrAttachment indicates the main file could not be attached
	ErrAttachment = errors.New("attachment failed")

	// ErrMove indicates an imported file could not be relocated
	ErrMove = errors.New("move failed")

	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")
)

// Reasoner is implemented by errors that carry a short outcome reason.
type Reasoner interface {
	Reason() string
}

// ReasonOf returns the short reason of the first Reasoner in err's chain,
// or "error" when there is none.
func ReasonOf(err error) string {
	var r Reasoner
	if errors.As(err, &r) {
		return r.Reason()
	}
	return "error"
}

// ConfigurationError represents invalid or missing run settings
type ConfigurationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	msg += ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements errors.Unwrap
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Reason implements Reasoner
func (e *ConfigurationError) Reason() string { return "configuration error" }

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(field, value, message string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Message: message, Err: err}
}

// UnknownLocationError represents a folder path with a segment that does not resolve
type UnknownLocationError struct {
	Path    string // Full slash separated folder path
	Segment string // First segment that did not resolve
}

// Error implements the error interface
func (e *UnknownLocationError) Error() string {
	if e.Segment != "" && e.Segment != e.Path {
		return fmt.Sprintf("unknown location %q: segment %q does not exist", e.Path, e.Segment)
	}
	return fmt.Sprintf("unknown location %q", e.Path)
}

// Is implements errors.Is support
func (e *UnknownLocationError) Is(target error) bool {
	return target == ErrUnknownLocation || target == ErrNotFound
}

// Reason implements Reasoner
func (e *UnknownLocationError) Reason() string { return "unknown location" }

// UnknownCodeError represents a filename code without a type mapping
type UnknownCodeError struct {
	Code     string
	Filename string
}

// Error implements the error interface
func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("no document type mapped to code %q (file %s)", e.Code, e.Filename)
}

// Is implements errors.Is support
func (e *UnknownCodeError) Is(target error) bool { return target == ErrUnknownCode }

// Reason implements Reasoner
func (e *UnknownCodeError) Reason() string { return "unknown code" }

// DuplicateDocumentError represents a document id already used in a container
type DuplicateDocumentError struct {
	DocumentID string
	Container  string
}

// Error implements the error interface
func (e *DuplicateDocumentError) Error() string {
	where := e.Container
	if where == "" {
		where = "/"
	}
	return fmt.Sprintf("document %q already exists in %s", e.DocumentID, where)
}

// Is implements errors.Is support
func (e *DuplicateDocumentError) Is(target error) bool {
	return target == ErrDuplicateDocument || target == ErrAlreadyExists
}

// Reason implements Reasoner
func (e *DuplicateDocumentError) Reason() string { return "duplicate document" }

// OrphanSidecarError represents a .metadata file whose data file is absent
type OrphanSidecarError struct {
	Sidecar  string
	DataFile string
}

// Error implements the error interface
func (e *OrphanSidecarError) Error() string {
	return fmt.Sprintf("sidecar %s has no data file %s", e.Sidecar, e.DataFile)
}

// Is implements errors.Is support
func (e *OrphanSidecarError) Is(target error) bool { return target == ErrOrphanSidecar }

// Reason implements Reasoner
func (e *OrphanSidecarError) Reason() string { return "orphan sidecar" }

// MetadataError represents a sidecar that is not a flat key-value record
type MetadataError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *MetadataError) Error() string {
	return fmt.Sprintf("invalid metadata in %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MetadataError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *MetadataError) Is(target error) bool { return target == ErrMetadata }

// Reason implements Reasoner
func (e *MetadataError) Reason() string { return "invalid metadata" }

// ProcessedConflictError represents a processed-tree destination that already exists
type ProcessedConflictError struct {
	Path string
}

// Error implements the error interface
func (e *ProcessedConflictError) Error() string {
	return fmt.Sprintf("processed file already exists: %s", e.Path)
}

// Is implements errors.Is support
func (e *ProcessedConflictError) Is(target error) bool {
	return target == ErrProcessedConflict || target == ErrAlreadyExists
}

// Reason implements Reasoner
func (e *ProcessedConflictError) Reason() string { return "processed file exists" }

// AttachmentError represents a failed main-file attachment.
// CleanupErr is set when removing the half-created document also failed.
type AttachmentError struct {
	DocumentID string
	Filename   string
	Err        error
	CleanupErr error
}

// Error implements the error interface
func (e *AttachmentError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("attach %s to document %q: %v", e.Filename, e.DocumentID, e.Err))
	if e.CleanupErr != nil {
		sb.WriteString(fmt.Sprintf(" (cleanup failed, document left behind: %v)", e.CleanupErr))
	}
	return sb.String()
}

// Unwrap implements errors.Unwrap
func (e *AttachmentError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *AttachmentError) Is(target error) bool { return target == ErrAttachment }

// Reason implements Reasoner
func (e *AttachmentError) Reason() string { return "attachment failed" }

// MoveError represents a failure relocating an imported file
type MoveError struct {
	Source      string
	Destination string
	Err         error
}

// Error implements the error interface
func (e *MoveError) Error() string {
	return fmt.Sprintf("move %s to %s: %v", e.Source, e.Destination, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *MoveError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *MoveError) Is(target error) bool { return target == ErrMove }

// Reason implements Reasoner
func (e *MoveError) Reason() string { return "move failed" }

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsConfiguration checks if an error aborts the whole run
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
