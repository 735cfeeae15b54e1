package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCode(t *testing.T) {
	tests := []struct {
		filename string
		code     string
		rest     string
	}{
		{"A1-Invoice.pdf", "A1", "Invoice.pdf"},
		{"A1-Invoice-2024.pdf", "A1", "Invoice-2024.pdf"},
		{"Z9.pdf", "Z9", ""},
		{"-leading.pdf", "", "leading.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			code, rest := SplitCode(tt.filename)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"A1-Invoice.pdf":        "Invoice",
		"A1-Invoice-2024.pdf":   "Invoice-2024",
		"A1-Rapport annuel.doc": "Rapport annuel",
		"A1-archive.tar.gz":     "archive.tar",
		"Z9.pdf":                "Z9",
		"A1-noext":              "noext",
		"A1-.pdf":               "A1-",
	}
	for filename, want := range tests {
		assert.Equal(t, want, TitleFromFilename(filename), filename)
	}
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "A1-Invoice", DocumentID("A1-Invoice.pdf"))
	assert.Equal(t, "A1-archive.tar", DocumentID("A1-archive.tar.gz"))
	assert.Equal(t, "README", DocumentID("README"))
}

func TestNormalizeID(t *testing.T) {
	tests := map[string]string{
		"Éléphant Rose":    "elephant-rose",
		"Scan 2024 (1)":    "scan-2024-1",
		"--A_b.c--":        "a_b.c",
		"IN-Courrier reçu": "in-courrier-recu",
		"***":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeID(in), in)
	}
}
