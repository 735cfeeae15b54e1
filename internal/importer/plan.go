package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/fileutil"
	"github.com/harrison/batchimport/internal/models"
)

// PlannedImport is the decision taken for one pending file during planning.
// Err is set when the file must stay in place; the other derived fields
// are filled as far as planning got before the failure.
type PlannedImport struct {
	File        models.PendingFile
	Code        string
	TypeName    string
	DocumentID  string
	Title       string
	Fields      map[string]string // Sidecar metadata minus the title
	Container   models.Container
	DataDest    string // Destination of the data file in the processed tree
	SidecarDest string // Destination of the sidecar, empty without sidecar
	Err         error
}

// OK reports whether the file is cleared for import.
func (p PlannedImport) OK() bool {
	return p.Err == nil
}

// Path returns the file's path relative to the source root.
func (p PlannedImport) Path() string {
	return p.File.RelativePath()
}

// Plan is the immutable list of decisions of one run, in processing order.
type Plan struct {
	Settings   models.ImportSettings
	Entries    []PlannedImport
	WalkErrors []error
}

// Ready returns the number of entries cleared for import.
func (p *Plan) Ready() int {
	n := 0
	for _, e := range p.Entries {
		if e.OK() {
			n++
		}
	}
	return n
}

// ValidateSettings checks the run preconditions without touching the file system.
func ValidateSettings(settings models.ImportSettings) error {
	if settings.SourceRoot == "" {
		return berrors.NewConfigurationError("source_root", "", "must not be empty", nil)
	}
	info, err := os.Stat(settings.SourceRoot)
	if err != nil {
		return berrors.NewConfigurationError("source_root", settings.SourceRoot, "cannot be accessed", err)
	}
	if !info.IsDir() {
		return berrors.NewConfigurationError("source_root", settings.SourceRoot, "is not a directory", nil)
	}

	if settings.ProcessedRoot == "" {
		return berrors.NewConfigurationError("processed_root", "", "must not be empty", nil)
	}
	src, err := fileutil.CanonicalPath(settings.SourceRoot)
	if err != nil {
		return berrors.NewConfigurationError("source_root", settings.SourceRoot, "cannot be resolved", err)
	}
	dst, err := fileutil.CanonicalPath(settings.ProcessedRoot)
	if err != nil {
		return berrors.NewConfigurationError("processed_root", settings.ProcessedRoot, "cannot be resolved", err)
	}
	if within, rel := fileutil.IsWithin(src, dst); within {
		// Only a hidden subtree of the source is skipped by the walk
		first, _, _ := strings.Cut(rel, "/")
		if rel == "" || !fileutil.IsHidden(first) {
			return berrors.NewConfigurationError("processed_root", settings.ProcessedRoot,
				"must not be the source root or a visible folder inside it", nil)
		}
	}
	if within, _ := fileutil.IsWithin(dst, src); within {
		return berrors.NewConfigurationError("processed_root", settings.ProcessedRoot,
			"must not contain the source root", nil)
	}
	return nil
}

// Plan walks the source tree and decides the fate of every data file.
// It reads the repository but changes neither the repository nor the file system.
func (r *Reconciler) Plan(ctx context.Context, settings models.ImportSettings) (*Plan, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	walk, err := fileutil.WalkDirectories(settings.SourceRoot)
	if err != nil {
		return nil, berrors.NewConfigurationError("source_root", settings.SourceRoot, "cannot be walked", err)
	}

	plan := &Plan{Settings: settings, WalkErrors: walk.Errors}
	for _, werr := range walk.Errors {
		r.logger.LogWarn(werr.Error())
	}

	processedRoot, err := filepath.Abs(settings.ProcessedRoot)
	if err != nil {
		return nil, berrors.NewConfigurationError("processed_root", settings.ProcessedRoot, "cannot be resolved", err)
	}

	// Document ids already claimed by earlier entries of this plan, per container
	claimed := make(map[int64]map[string]string)

	for _, dir := range walk.Directories {
		r.logger.LogDebug(fmt.Sprintf("scanning %s (%d files)", displayDir(dir.RelativePath), len(dir.Files)))

		for _, pending := range pairDirectory(dir) {
			if pending.err != nil {
				plan.Entries = append(plan.Entries, PlannedImport{File: pending.file, Err: pending.err})
				continue
			}
			entry := r.planOne(ctx, settings, processedRoot, pending.file)
			if entry.OK() {
				byID := claimed[entry.Container.ID]
				if byID == nil {
					byID = make(map[string]string)
					claimed[entry.Container.ID] = byID
				}
				if other, taken := byID[entry.DocumentID]; taken {
					r.logger.LogDebug(fmt.Sprintf("%s: id %q already planned for %s", entry.Path(), entry.DocumentID, other))
					entry.Err = &berrors.DuplicateDocumentError{DocumentID: entry.DocumentID, Container: entry.Container.Path}
				} else {
					byID[entry.DocumentID] = entry.Path()
				}
			}
			plan.Entries = append(plan.Entries, entry)
		}
	}

	return plan, nil
}

func displayDir(rel string) string {
	if rel == "" {
		return "/"
	}
	return rel
}

type pendingEntry struct {
	file models.PendingFile
	err  error // Pairing error: orphan sidecar or unreadable metadata
}

// pairDirectory partitions one directory into plain data files and
// sidecar-backed data files. Plain files come first, then sidecar-backed
// ones; each group keeps lexical order. A data file consumed by a sidecar
// never appears as a plain file.
func pairDirectory(dir fileutil.Directory) []pendingEntry {
	others := make(map[string]bool)
	var sidecars []string
	for _, name := range dir.Files {
		if IsSidecar(name) {
			sidecars = append(sidecars, name)
		} else {
			others[name] = true
		}
	}
	sort.Strings(sidecars)

	newFile := func(name string) models.PendingFile {
		return models.PendingFile{
			AbsolutePath:   filepath.Join(dir.AbsolutePath, name),
			RelativeFolder: dir.RelativePath,
			BaseName:       name,
		}
	}

	var backed []pendingEntry
	for _, sidecar := range sidecars {
		dataName := SidecarTarget(sidecar)
		if !others[dataName] {
			orphan := newFile(sidecar)
			backed = append(backed, pendingEntry{
				file: orphan,
				err:  &berrors.OrphanSidecarError{Sidecar: orphan.RelativePath(), DataFile: dataName},
			})
			continue
		}
		delete(others, dataName)

		file := newFile(dataName)
		file.SidecarPath = filepath.Join(dir.AbsolutePath, sidecar)
		metadata, err := ReadSidecar(file.SidecarPath)
		if err != nil {
			backed = append(backed, pendingEntry{file: file, err: err})
			continue
		}
		file.Metadata = metadata
		backed = append(backed, pendingEntry{file: file})
	}

	plain := make([]string, 0, len(others))
	for name := range others {
		plain = append(plain, name)
	}
	sort.Strings(plain)

	entries := make([]pendingEntry, 0, len(plain)+len(backed))
	for _, name := range plain {
		entries = append(entries, pendingEntry{file: newFile(name)})
	}
	return append(entries, backed...)
}

// planOne classifies one file the way an import would, without writing:
// location, then code, then identifier, then the processed destination.
func (r *Reconciler) planOne(ctx context.Context, settings models.ImportSettings, processedRoot string, file models.PendingFile) PlannedImport {
	entry := PlannedImport{File: file}

	container, err := r.repo.ResolveLocation(ctx, file.RelativeFolder)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.Container = container

	code, _ := SplitCode(file.BaseName)
	entry.Code = code
	typeName, ok := settings.TypeForCode(code)
	if !ok {
		entry.Err = &berrors.UnknownCodeError{Code: code, Filename: file.BaseName}
		return entry
	}
	entry.TypeName = typeName

	entry.DocumentID = DocumentID(file.BaseName)
	exists, err := r.repo.DocumentExists(ctx, container, entry.DocumentID)
	if err != nil {
		entry.Err = err
		return entry
	}
	if exists {
		entry.Err = &berrors.DuplicateDocumentError{DocumentID: entry.DocumentID, Container: container.Path}
		return entry
	}

	title, hasTitle, fields := splitTitle(file.Metadata)
	if !hasTitle {
		title = TitleFromFilename(file.BaseName)
	}
	entry.Title = title
	entry.Fields = fields

	destDir := filepath.Join(processedRoot, filepath.FromSlash(file.RelativeFolder))
	entry.DataDest = filepath.Join(destDir, file.BaseName)
	if fileutil.Exists(entry.DataDest) {
		entry.Err = &berrors.ProcessedConflictError{Path: entry.DataDest}
		return entry
	}
	if file.HasSidecar() {
		entry.SidecarDest = filepath.Join(destDir, filepath.Base(file.SidecarPath))
		if fileutil.Exists(entry.SidecarDest) {
			entry.Err = &berrors.ProcessedConflictError{Path: entry.SidecarDest}
			return entry
		}
	}

	return entry
}
