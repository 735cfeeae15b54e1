package importer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CodeSeparator splits the classification code from the rest of a filename.
const CodeSeparator = "-"

// stem returns name without its last extension.
func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// SplitCode splits a filename at the first separator.
// "A1-Invoice.pdf" yields ("A1", "Invoice.pdf"). A name without separator
// yields its stem as code and an empty rest.
func SplitCode(filename string) (code, rest string) {
	if i := strings.Index(filename, CodeSeparator); i >= 0 {
		return filename[:i], filename[i+len(CodeSeparator):]
	}
	return stem(filename), ""
}

// DocumentID derives the document identifier: the filename without extension.
func DocumentID(filename string) string {
	return stem(filename)
}

// TitleFromFilename derives a title from the part of the filename after the
// first separator, extension stripped. Without separator, or when nothing
// is left after the separator, the stem is used.
func TitleFromFilename(filename string) string {
	_, rest := SplitCode(filename)
	if title := stem(rest); title != "" {
		return title
	}
	return stem(filename)
}

var (
	nonIDChars   = regexp.MustCompile(`[^a-z0-9._]+`)
	stripMarks   = runes.Remove(runes.In(unicode.Mn))
	foldAccented = transform.Chain(norm.NFD, stripMarks, norm.NFC)
)

// NormalizeID turns free text into a URL-safe identifier: accents are
// dropped, letters lowercased and runs of other characters collapse to "-".
func NormalizeID(text string) string {
	folded, _, err := transform.String(foldAccented, text)
	if err != nil {
		folded = text
	}
	id := nonIDChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(id, "-")
}
