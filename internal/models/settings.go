package models

// ImportSettings is the read-only configuration of a single import run.
// It is built once from the loaded config and never mutated during the run.
type ImportSettings struct {
	SourceRoot    string            // Directory tree scanned for data files
	ProcessedRoot string            // Mirror tree receiving successfully imported files
	CodeToType    map[string]string // Filename code -> document type name
	DryRun        bool              // Plan only, do not create documents or move files
}

// TypeForCode returns the document type mapped to code.
func (s ImportSettings) TypeForCode(code string) (string, bool) {
	if s.CodeToType == nil {
		return "", false
	}
	typeName, ok := s.CodeToType[code]
	return typeName, ok
}
