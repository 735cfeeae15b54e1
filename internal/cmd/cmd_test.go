package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/batchimport/internal/config"
)

// testEnv is a throwaway working directory with a config file, a source
// tree and a processed tree.
type testEnv struct {
	dir       string
	source    string
	processed string
	home      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	env := &testEnv{
		dir:       dir,
		source:    filepath.Join(dir, "incoming"),
		processed: filepath.Join(dir, "processed"),
		home:      filepath.Join(dir, "home"),
	}
	require.NoError(t, os.MkdirAll(env.source, 0755))

	t.Setenv(config.EnvHome, env.home)
	for _, key := range []string{config.EnvSourceRoot, config.EnvProcessedRoot, config.EnvLogLevel, config.EnvDBPath} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	chdirForTest(t, dir)

	cfg := `source_root: ` + env.source + `
processed_root: ` + env.processed + `
code_to_type_mapping:
  - code: A1
    portal_type: Invoice
  - code: IN
    portal_type: dmsincomingmail
`
	env.write(t, filepath.Join(".batchimport", "config.yaml"), cfg)
	return env
}

// write creates a file relative to the working directory.
func (e *testEnv) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	output, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, output, "batchimport")
	assert.Contains(t, output, "processed tree")

	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "import", "folder", "documents", "history", "report", "validate"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionFlag(t *testing.T) {
	output, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, output, "version")
}

func TestRunCommandImportsTree(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "incoming/finance/A1-Invoice.pdf", "%PDF")
	env.write(t, "incoming/finance/A1-Invoice.pdf.metadata", "title: Q1 Report\n")
	env.write(t, "incoming/Z9-Report.pdf", "x")

	_, err := executeCommand(t, "folder", "add", "finance")
	require.NoError(t, err)

	output, err := executeCommand(t, "run")
	require.NoError(t, err)
	assert.Contains(t, output, "1 file(s) imported, 1 file(s) not processed")
	assert.Contains(t, output, "Z9-Report.pdf")

	assert.FileExists(t, filepath.Join(env.processed, "finance", "A1-Invoice.pdf"))
	assert.FileExists(t, filepath.Join(env.processed, "finance", "A1-Invoice.pdf.metadata"))
	assert.FileExists(t, filepath.Join(env.source, "Z9-Report.pdf"))
	assert.DirExists(t, filepath.Join(env.home, "logs"))

	output, err = executeCommand(t, "documents", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Q1 Report")
	assert.Contains(t, output, "A1-Invoice.pdf")

	output, err = executeCommand(t, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[2], "1 "), "unexpected row %q", lines[2])

	output, err = executeCommand(t, "report", "1")
	require.NoError(t, err)
	assert.Contains(t, output, "# Import Run 1")
	assert.Contains(t, output, "`Z9-Report.pdf` | FAILED")

	// Nothing left to import
	output, err = executeCommand(t, "run")
	require.NoError(t, err)
	assert.Contains(t, output, "0 file(s) imported, 1 file(s) not processed")
}

func TestRunCommandDryRun(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "incoming/A1-Invoice.pdf", "%PDF")

	output, err := executeCommand(t, "run", "--dry-run", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, output, "1 file(s) planned for import, 0 file(s) not processed")
	assert.Contains(t, output, "Document store: "+filepath.Join(env.home, "documents.db"))
	assert.FileExists(t, filepath.Join(env.source, "A1-Invoice.pdf"))

	output, err = executeCommand(t, "history")
	require.NoError(t, err)
	assert.Contains(t, output, "No import runs recorded")
}

func TestRunCommandWritesReports(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "incoming/A1-Invoice.pdf", "%PDF")
	reports := filepath.Join(env.dir, "reports")

	output, err := executeCommand(t, "run", "--report-dir", reports, "--report-format", "md,html,json")
	require.NoError(t, err)
	assert.Contains(t, output, "Report written to:")

	for _, name := range []string{"run-1.md", "run-1.html", "run-1.json"} {
		assert.FileExists(t, filepath.Join(reports, name))
	}
}

func TestRunCommandFlagsOverrideConfig(t *testing.T) {
	env := newTestEnv(t)
	other := filepath.Join(env.dir, "other")
	env.write(t, "other/A1-Invoice.pdf", "%PDF")

	output, err := executeCommand(t, "run", "--source", other)
	require.NoError(t, err)
	assert.Contains(t, output, "1 file(s) imported")
	assert.FileExists(t, filepath.Join(env.processed, "A1-Invoice.pdf"))
}

func TestRunCommandConfigurationErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantErrMsg string
	}{
		{name: "missing source", args: []string{"run", "--source", "does-not-exist"}, wantErrMsg: "configuration error"},
		{name: "processed inside source", args: []string{"run", "--processed", "incoming/done"}, wantErrMsg: "processed_root"},
		{name: "bad report format", args: []string{"run", "--report-format", "pdf"}, wantErrMsg: "invalid format"},
		{name: "unexpected argument", args: []string{"run", "extra"}, wantErrMsg: "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := executeCommand(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrMsg)
			// Neither the document store nor the log directory may be created
			assert.NoDirExists(t, env.home)
			assert.NoDirExists(t, env.processed)
		})
	}
}

func TestImportCommand(t *testing.T) {
	env := newTestEnv(t)
	scan := env.write(t, "Scan 001.pdf", "%PDF-scan")

	_, err := executeCommand(t, "folder", "add", "mail/2024", "--parents")
	require.NoError(t, err)

	output, err := executeCommand(t, "import", scan,
		"--portal-type", "dmsincomingmail", "--location", "mail/2024", "--owner", "alice")
	require.NoError(t, err)
	assert.Contains(t, output, `Created dmsincomingmail "scan-001"`)
	assert.Contains(t, output, "Reference: in/1")
	assert.FileExists(t, scan, "single-file import leaves the source in place")

	_, err = executeCommand(t, "import", scan, "--portal-type", "dmsincomingmail", "--location", "mail/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	output, err = executeCommand(t, "documents", "list", "--folder", "mail/2024")
	require.NoError(t, err)
	assert.Contains(t, output, "scan-001")

	var uid string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "scan-001") {
			uid = strings.Fields(line)[0]
		}
	}
	require.NotEmpty(t, uid)

	target := filepath.Join(env.dir, "out.pdf")
	_, err = executeCommand(t, "documents", "download", uid, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-scan", string(data))
}

func TestFolderCommands(t *testing.T) {
	newTestEnv(t)

	_, err := executeCommand(t, "folder", "add", "finance/2024")
	require.Error(t, err, "missing parent without --parents")

	_, err = executeCommand(t, "folder", "add", "finance", "--title", "Finance")
	require.NoError(t, err)
	_, err = executeCommand(t, "folder", "add", "finance/2024")
	require.NoError(t, err)

	output, err := executeCommand(t, "folder", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "/")
	assert.Contains(t, output, "Finance")
	assert.Contains(t, output, "finance/2024")
}

func TestValidateCommand(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, "incoming/A1-Invoice.pdf", "%PDF")
	env.write(t, "incoming/Z9-Report.pdf", "x")
	env.write(t, "incoming/A1-Gone.pdf.metadata", "title: Gone\n")

	output, err := executeCommand(t, "validate")
	require.NoError(t, err)

	assert.Contains(t, output, "A1    Invoice")
	assert.Contains(t, output, "Warning: unknown code")
	assert.Contains(t, output, "Z9-Report.pdf")
	assert.Contains(t, output, "Warning: orphan sidecar")
	assert.Contains(t, output, "3 file(s) found, 1 ready for import")

	// Nothing moved
	assert.FileExists(t, filepath.Join(env.source, "A1-Invoice.pdf"))
}

func TestValidateCommandInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	env.write(t, filepath.Join(".batchimport", "config.yaml"), "log_level: loud\n")

	_, err := executeCommand(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestReportCommandErrors(t *testing.T) {
	newTestEnv(t)

	_, err := executeCommand(t, "report", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid run id")

	_, err = executeCommand(t, "report", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = executeCommand(t, "report", "1", "--format", "pdf")
	require.Error(t, err)
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
