package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestTableRender(t *testing.T) {
	tbl := NewTable("PATH", "TITLE")
	tbl.AddRow("/", "Root")
	tbl.AddRow("finance/2024", "2024")
	tbl.AddRow("only-path")

	var buf bytes.Buffer
	if err := tbl.Render(&buf, false); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "PATH          TITLE\n" +
		"-------------------\n" +
		"/             Root\n" +
		"finance/2024  2024\n" +
		"only-path     \n"
	if buf.String() != want {
		t.Errorf("Render() =\n%q\nwant\n%q", buf.String(), want)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", tbl.Len())
	}
}

func TestTableRenderAlignsMultibyte(t *testing.T) {
	tbl := NewTable("ID", "TITLE")
	tbl.AddRow("é", "x")
	tbl.AddRow("ab", "y")

	var buf bytes.Buffer
	if err := tbl.Render(&buf, false); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if lines[2] != "é   x" {
		t.Errorf("row = %q, want %q", lines[2], "é   x")
	}
}

func TestTableRenderColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	tbl := NewTable("A")
	tbl.AddStyledRow(color.New(color.FgRed), "bad")

	var buf bytes.Buffer
	if err := tbl.Render(&buf, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[31mbad") {
		t.Errorf("expected red row, got %q", buf.String())
	}
}

func TestIsTerminalBuffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"ééééé", 4, "é..."},
		{"abc", 2, "abc"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
