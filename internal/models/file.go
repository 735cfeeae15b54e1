package models

import "path/filepath"

// MetadataSuffix marks a sidecar file carrying attributes for its data file.
const MetadataSuffix = ".metadata"

// PendingFile is a data file discovered during a directory walk.
type PendingFile struct {
	AbsolutePath   string            // Absolute path of the data file
	RelativeFolder string            // Folder relative to the source root, slash separated ("" for the root)
	BaseName       string            // File name without directory
	SidecarPath    string            // Absolute path of the sidecar, empty when there is none
	Metadata       map[string]string // Parsed sidecar record, nil when there is no sidecar
}

// HasSidecar reports whether the file was paired with a metadata sidecar.
func (p PendingFile) HasSidecar() bool {
	return p.SidecarPath != ""
}

// RelativePath returns the slash separated path of the file below the source root.
func (p PendingFile) RelativePath() string {
	if p.RelativeFolder == "" {
		return p.BaseName
	}
	return filepath.ToSlash(filepath.Join(p.RelativeFolder, p.BaseName))
}
