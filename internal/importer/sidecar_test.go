package importer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	berrors "github.com/harrison/batchimport/internal/errors"
)

func TestParseSidecar(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "yaml record",
			input: "title: Q1 Report\nsupplier: ACME\n",
			want:  map[string]string{"title": "Q1 Report", "supplier": "ACME"},
		},
		{
			name:  "json record",
			input: `{"title": "Q1 Report", "amount": "12.50"}`,
			want:  map[string]string{"title": "Q1 Report", "amount": "12.50"},
		},
		{
			name:  "scalars kept as written",
			input: "ref: 007\ndate: 2024-03-01\nflag: yes\n",
			want:  map[string]string{"ref": "007", "date": "2024-03-01", "flag": "yes"},
		},
		{
			name:  "null becomes empty",
			input: "title:\nnote: ~\n",
			want:  map[string]string{"title": "", "note": ""},
		},
		{name: "empty file", input: "", want: map[string]string{}},
		{name: "null document", input: "~\n", want: map[string]string{}},
		{name: "nested value", input: "title:\n  en: Report\n", wantErr: true},
		{name: "list value", input: "tags: [a, b]\n", wantErr: true},
		{name: "top level list", input: "- a\n- b\n", wantErr: true},
		{name: "duplicate key", input: "title: a\ntitle: b\n", wantErr: true},
		{name: "syntax error", input: "title: [unclosed\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSidecar([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSidecarWrapsErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadSidecar(filepath.Join(dir, "missing.pdf.metadata"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, berrors.ErrMetadata))

	path := writeFile(t, dir, "bad.pdf.metadata", "a: [")
	_, err = ReadSidecar(path)
	var metaErr *berrors.MetadataError
	require.ErrorAs(t, err, &metaErr)
	assert.Equal(t, path, metaErr.Path)
}

func TestSidecarNames(t *testing.T) {
	assert.True(t, IsSidecar("A1-Invoice.pdf.metadata"))
	assert.False(t, IsSidecar("A1-Invoice.pdf"))
	assert.False(t, IsSidecar(".metadata"))
	assert.Equal(t, "A1-Invoice.pdf", SidecarTarget("A1-Invoice.pdf.metadata"))
}

func TestSplitTitle(t *testing.T) {
	title, ok, fields := splitTitle(map[string]string{"title": "Q1", "a": "b"})
	assert.True(t, ok)
	assert.Equal(t, "Q1", title)
	assert.Equal(t, map[string]string{"a": "b"}, fields)

	_, ok, fields = splitTitle(map[string]string{"title": "  "})
	assert.False(t, ok)
	assert.Empty(t, fields)

	_, ok, fields = splitTitle(nil)
	assert.False(t, ok)
	assert.Empty(t, fields)
}
