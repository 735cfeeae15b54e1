package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// fakeRepo is an in-memory Repository with failure injection.
type fakeRepo struct {
	mu         sync.Mutex
	containers map[string]models.Container
	docs       map[string]models.Document // by UID
	nextUID    int

	attachErr error
	deleteErr error
	created   []models.DocumentRequest
	deleted   []string
	lookups   []string // folder paths passed to ResolveLocation
}

func newFakeRepo(folders ...string) *fakeRepo {
	r := &fakeRepo{
		containers: map[string]models.Container{"": {ID: 1, Path: "", Title: "Root"}},
		docs:       make(map[string]models.Document),
	}
	for _, f := range folders {
		r.containers[f] = models.Container{ID: int64(len(r.containers) + 1), Path: f, Title: filepath.Base(f)}
	}
	return r
}

func (r *fakeRepo) ResolveLocation(_ context.Context, folderPath string) (models.Container, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, folderPath)
	if c, ok := r.containers[folderPath]; ok {
		return c, nil
	}
	// Report the first missing segment
	segments := strings.Split(folderPath, "/")
	for i := range segments {
		if _, ok := r.containers[strings.Join(segments[:i+1], "/")]; !ok {
			return models.Container{}, &berrors.UnknownLocationError{Path: folderPath, Segment: segments[i]}
		}
	}
	return models.Container{}, &berrors.UnknownLocationError{Path: folderPath}
}

func (r *fakeRepo) DocumentExists(_ context.Context, container models.Container, documentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.docs {
		if d.Container.ID == container.ID && d.ID == documentID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateDocument(ctx context.Context, container models.Container, req models.DocumentRequest) (models.Document, error) {
	exists, _ := r.DocumentExists(ctx, container, req.ID)
	if exists {
		return models.Document{}, &berrors.DuplicateDocumentError{DocumentID: req.ID, Container: container.Path}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextUID++
	doc := models.Document{
		UID:       fmt.Sprintf("uid-%d", r.nextUID),
		ID:        req.ID,
		Container: container,
		TypeName:  req.TypeName,
		Title:     req.Title,
		Owner:     req.Owner,
		Fields:    req.Fields,
	}
	r.docs[doc.UID] = doc
	r.created = append(r.created, req)
	return doc, nil
}

func (r *fakeRepo) AttachFile(_ context.Context, doc models.Document, file models.FileUpload) (models.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachErr != nil {
		return models.Attachment{}, r.attachErr
	}
	title := file.Title
	if title == "" {
		title = file.Filename
	}
	att := models.Attachment{UID: doc.UID + "-file", Filename: file.Filename, Title: title, Size: int64(len(file.Content))}
	d := r.docs[doc.UID]
	d.Attachment = &att
	r.docs[doc.UID] = d
	return att, nil
}

func (r *fakeRepo) DeleteDocument(_ context.Context, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.docs, doc.UID)
	r.deleted = append(r.deleted, doc.UID)
	return nil
}

func (r *fakeRepo) CountDocumentsByType(_ context.Context, typeName string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range r.docs {
		if d.TypeName == typeName {
			n++
		}
	}
	return n, nil
}

// documents returns the stored documents keyed by container path and id.
func (r *fakeRepo) documents() map[string]models.Document {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]models.Document, len(r.docs))
	for _, d := range r.docs {
		out[filepath.ToSlash(filepath.Join(d.Container.Path, d.ID))] = d
	}
	return out
}

// recordingLogger keeps every outcome and summary it receives.
type recordingLogger struct {
	nopLogger
	outcomes  []models.ImportOutcome
	summaries []models.RunSummary
	warnings  []string
	debug     []string
	progress  [][2]int
}

func (l *recordingLogger) LogDebug(message string) { l.debug = append(l.debug, message) }
func (l *recordingLogger) LogWarn(message string)  { l.warnings = append(l.warnings, message) }
func (l *recordingLogger) LogOutcome(outcome models.ImportOutcome) {
	l.outcomes = append(l.outcomes, outcome)
}
func (l *recordingLogger) LogProgress(current, total int) {
	l.progress = append(l.progress, [2]int{current, total})
}
func (l *recordingLogger) LogSummary(summary models.RunSummary) {
	l.summaries = append(l.summaries, summary)
}

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testSettings(t *testing.T, mapping map[string]string) models.ImportSettings {
	t.Helper()
	return models.ImportSettings{
		SourceRoot:    t.TempDir(),
		ProcessedRoot: t.TempDir(),
		CodeToType:    mapping,
	}
}
