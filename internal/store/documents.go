package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// DocumentExists reports whether documentID is taken in container
func (s *Store) DocumentExists(ctx context.Context, container models.Container, documentID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE container_id = ? AND document_id = ?`,
		container.ID, documentID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check document %q: %w", documentID, err)
	}
	return count > 0, nil
}

// CreateDocument creates a document in container and assigns it a UID.
// A taken identifier fails with a DuplicateDocumentError.
func (s *Store) CreateDocument(ctx context.Context, container models.Container, req models.DocumentRequest) (models.Document, error) {
	fields := req.Fields
	if fields == nil {
		fields = map[string]string{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return models.Document{}, fmt.Errorf("marshal fields: %w", err)
	}

	doc := models.Document{
		UID:       uuid.New().String(),
		ID:        req.ID,
		Container: container,
		TypeName:  req.TypeName,
		Title:     req.Title,
		Owner:     req.Owner,
		Fields:    fields,
		CreatedAt: s.now(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (uid, container_id, document_id, portal_type, title, owner, fields, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.UID, container.ID, doc.ID, doc.TypeName, doc.Title, doc.Owner, string(fieldsJSON), formatTime(doc.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Document{}, &berrors.DuplicateDocumentError{DocumentID: req.ID, Container: container.Path}
		}
		return models.Document{}, fmt.Errorf("insert document %q: %w", req.ID, err)
	}

	return doc, nil
}

// AttachFile stores file as the main file of doc. A document holds at most one main file.
func (s *Store) AttachFile(ctx context.Context, doc models.Document, file models.FileUpload) (models.Attachment, error) {
	pk, err := s.documentPK(ctx, doc.UID)
	if err != nil {
		return models.Attachment{}, err
	}

	title := file.Title
	if title == "" {
		title = file.Filename
	}
	content := file.Content
	if content == nil {
		content = []byte{}
	}

	att := models.Attachment{
		UID:      uuid.New().String(),
		Filename: file.Filename,
		Title:    title,
		Size:     int64(len(content)),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attachments (uid, document_pk, filename, title, size, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		att.UID, pk, att.Filename, att.Title, att.Size, content, formatTime(s.now()))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Attachment{}, fmt.Errorf("document %q main file: %w", doc.ID, berrors.ErrAlreadyExists)
		}
		return models.Attachment{}, fmt.Errorf("insert attachment %s: %w", file.Filename, err)
	}
	return att, nil
}

// DeleteDocument removes doc and its attachment
func (s *Store) DeleteDocument(ctx context.Context, doc models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attachments WHERE document_pk IN (SELECT id FROM documents WHERE uid = ?)`, doc.UID); err != nil {
		return fmt.Errorf("delete attachment of %q: %w", doc.ID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE uid = ?`, doc.UID)
	if err != nil {
		return fmt.Errorf("delete document %q: %w", doc.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return berrors.NewNotFoundError("document", doc.UID)
	}
	return tx.Commit()
}

func (s *Store) documentPK(ctx context.Context, uid string) (int64, error) {
	var pk int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM documents WHERE uid = ?`, uid).Scan(&pk)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, berrors.NewNotFoundError("document", uid)
	}
	if err != nil {
		return 0, fmt.Errorf("query document %s: %w", uid, err)
	}
	return pk, nil
}

// CountDocumentsByType returns how many documents of typeName exist
func (s *Store) CountDocumentsByType(ctx context.Context, typeName string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE portal_type = ?`, typeName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", typeName, err)
	}
	return count, nil
}

const documentColumns = `d.uid, d.document_id, d.portal_type, d.title, COALESCE(d.owner, ''), d.fields, d.created_at,
	c.id, c.path, c.title,
	a.uid, a.filename, a.title, a.size`

const documentJoins = `FROM documents d
	JOIN containers c ON c.id = d.container_id
	LEFT JOIN attachments a ON a.document_pk = d.id`

// ListDocuments returns documents ordered by container path and id.
// A non-empty folderPath restricts the listing to that container.
func (s *Store) ListDocuments(ctx context.Context, folderPath string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` ` + documentJoins
	var args []interface{}
	if folderPath != "" {
		path, err := NormalizePath(folderPath)
		if err != nil {
			return nil, err
		}
		query += ` WHERE c.path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY c.path, d.document_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetDocument returns the document with the given UID
func (s *Store) GetDocument(ctx context.Context, uid string) (models.Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` `+documentJoins+` WHERE d.uid = ?`, uid)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, berrors.NewNotFoundError("document", uid)
	}
	return doc, err
}

// AttachmentContent returns the stored bytes of a document's main file
func (s *Store) AttachmentContent(ctx context.Context, documentUID string) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT a.content FROM attachments a JOIN documents d ON d.id = a.document_pk WHERE d.uid = ?`,
		documentUID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, berrors.NewNotFoundError("main file of document", documentUID)
	}
	if err != nil {
		return nil, fmt.Errorf("query attachment content: %w", err)
	}
	return content, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc        models.Document
		fieldsJSON string
		createdAt  string
		attUID     sql.NullString
		attName    sql.NullString
		attTitle   sql.NullString
		attSize    sql.NullInt64
	)
	err := row.Scan(
		&doc.UID, &doc.ID, &doc.TypeName, &doc.Title, &doc.Owner, &fieldsJSON, &createdAt,
		&doc.Container.ID, &doc.Container.Path, &doc.Container.Title,
		&attUID, &attName, &attTitle, &attSize,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Document{}, err
		}
		return models.Document{}, fmt.Errorf("scan document: %w", err)
	}

	doc.CreatedAt = parseTime(createdAt)
	doc.Fields = map[string]string{}
	if fieldsJSON != "" {
		if err := json.Unmarshal([]byte(fieldsJSON), &doc.Fields); err != nil {
			return models.Document{}, fmt.Errorf("unmarshal fields of %q: %w", doc.ID, err)
		}
	}
	if attUID.Valid {
		doc.Attachment = &models.Attachment{
			UID:      attUID.String,
			Filename: attName.String,
			Title:    attTitle.String,
			Size:     attSize.Int64,
		}
	}
	return doc, nil
}
