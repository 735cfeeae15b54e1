package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directory is one directory found by WalkDirectories
type Directory struct {
	// AbsolutePath is the absolute path of the directory
	AbsolutePath string
	// RelativePath is the slash separated path below the walk root ("" for the root)
	RelativePath string
	// Files holds the names of the non-hidden regular files, sorted
	Files []string
}

// WalkResult contains the results of a directory walk
type WalkResult struct {
	// Directories in lexical walk order, root first
	Directories []Directory
	// Errors contains any non-fatal errors encountered during the walk
	Errors []error
}

// IsHidden reports whether a file or directory name is hidden
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// WalkDirectories enumerates root and all its non-hidden subdirectories
func WalkDirectories(root string) (*WalkResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	// WalkDir does not descend into a symlinked root
	absRoot, err := CanonicalPath(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", root, err)
	}

	result := &WalkResult{
		Directories: make([]Directory, 0),
		Errors:      make([]error, 0),
	}

	// Index of the directory currently being filled, keyed by absolute path
	index := make(map[string]int)

	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil // Continue walking
		}

		if d.IsDir() {
			if path != absRoot && IsHidden(d.Name()) {
				return filepath.SkipDir
			}
			rel, err := filepath.Rel(absRoot, path)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("failed to relativize %s: %w", path, err))
				return filepath.SkipDir
			}
			if rel == "." {
				rel = ""
			}
			index[path] = len(result.Directories)
			result.Directories = append(result.Directories, Directory{
				AbsolutePath: path,
				RelativePath: filepath.ToSlash(rel),
				Files:        make([]string, 0),
			})
			return nil
		}

		if IsHidden(d.Name()) || !d.Type().IsRegular() {
			return nil
		}

		i, ok := index[filepath.Dir(path)]
		if !ok {
			return nil
		}
		result.Directories[i].Files = append(result.Directories[i].Files, d.Name())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	for i := range result.Directories {
		sort.Strings(result.Directories[i].Files)
	}

	return result, nil
}

// Exists reports whether path exists. Errors other than "not exist" count as existing.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !os.IsNotExist(err)
}

// CanonicalPath returns path made absolute with symlinks resolved.
// Missing trailing components are kept as given below the deepest existing ancestor.
func CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	var missing []string
	current := abs
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return abs, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// IsWithin reports whether path lies inside (or equals) dir.
// The returned relative path is slash separated.
func IsWithin(dir, path string) (bool, string) {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false, ""
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, ""
	}
	if rel == "." {
		return true, ""
	}
	return true, filepath.ToSlash(rel)
}
