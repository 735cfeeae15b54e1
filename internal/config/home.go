package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the batchimport home directory
const EnvHome = "BATCHIMPORT_HOME"

// GetHome returns the batchimport home directory
// Priority order:
//  1. BATCHIMPORT_HOME environment variable (if set)
//  2. .batchimport in the current working directory
//
// The directory is created if it doesn't exist
func GetHome() (string, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		home = filepath.Join(cwd, homeDirName)
	}

	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create batchimport home directory: %w", err)
	}

	return home, nil
}

// homeDirName is the default home directory name and the prefix of default paths
const homeDirName = ".batchimport"

// ResolvePath makes a relative config path absolute.
// Paths below ".batchimport/" are placed inside the home directory, so the
// defaults follow BATCHIMPORT_HOME. Other relative paths resolve against
// the working directory.
func ResolvePath(path string) (string, error) {
	if path == "" || filepath.IsAbs(path) {
		return path, nil
	}

	clean := filepath.Clean(path)
	if rest, ok := strings.CutPrefix(clean, homeDirName+string(filepath.Separator)); ok {
		home, err := GetHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, rest), nil
	}

	abs, err := filepath.Abs(clean)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
