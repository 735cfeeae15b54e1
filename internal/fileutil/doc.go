// Package fileutil provides the file system primitives used by the importer.
//
// # Directory enumeration
//
// WalkDirectories lists every directory below a root, the root included,
// together with the regular files each one holds. Entries whose name starts
// with "." are never returned: hidden directories are pruned with their whole
// subtree and hidden files are left out of the listing. Output is sorted so a
// walk over the same tree always yields the same order.
//
// Non-fatal errors (e.g. a subdirectory that cannot be read) are collected in
// WalkResult.Errors and the walk continues. Only a missing or unreadable root
// fails the call.
//
//	result, err := fileutil.WalkDirectories("/srv/scans/incoming")
//	if err != nil {
//	    return err
//	}
//	for _, dir := range result.Directories {
//	    fmt.Println(dir.RelativePath, dir.Files)
//	}
//
// # Moving files
//
// MoveFile relocates a file, creating the destination's parent directories.
// A rename is attempted first; when source and destination live on different
// file systems the file is copied and the source removed.
package fileutil
