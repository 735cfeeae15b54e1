package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetHomeWithEnvVar tests BATCHIMPORT_HOME env var takes precedence
func TestGetHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "custom")
	t.Setenv(EnvHome, customHome)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	if home != customHome {
		t.Errorf("GetHome() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); os.IsNotExist(err) {
		t.Errorf("Directory not created: %q", home)
	}
}

// TestGetHomeFallsBackToWorkingDir tests the cwd fallback
func TestGetHomeFallsBackToWorkingDir(t *testing.T) {
	t.Setenv(EnvHome, "")
	dir := t.TempDir()
	chdirForTest(t, dir)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}

	if filepath.Base(home) != ".batchimport" {
		t.Errorf("GetHome() = %q, want a .batchimport directory", home)
	}
	if _, err := os.Stat(home); err != nil {
		t.Errorf("home directory not created: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	home := filepath.Join(t.TempDir(), "custom-home")
	t.Setenv(EnvHome, home)
	cwd := t.TempDir()
	chdirForTest(t, cwd)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "absolute", in: "/var/lib/documents.db", want: "/var/lib/documents.db"},
		{name: "default below home", in: ".batchimport/logs", want: filepath.Join(home, "logs")},
		{name: "nested default", in: ".batchimport/db/documents.db", want: filepath.Join(home, "db", "documents.db")},
		{name: "relative to working dir", in: "reports", want: filepath.Join(cwd, "reports")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.in)
			if err != nil {
				t.Fatalf("ResolvePath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains:
// it changes the working directory and restores it when the test ends.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Setenv("PWD", dir)
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}
