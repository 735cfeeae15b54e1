package importer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	berrors "github.com/harrison/batchimport/internal/errors"
	"github.com/harrison/batchimport/internal/models"
)

// TitleKey is the sidecar key overriding the filename-derived title.
const TitleKey = "title"

// IsSidecar reports whether name is a metadata sidecar.
func IsSidecar(name string) bool {
	return strings.HasSuffix(name, models.MetadataSuffix) && name != models.MetadataSuffix
}

// SidecarTarget returns the data file a sidecar describes.
func SidecarTarget(name string) string {
	return strings.TrimSuffix(name, models.MetadataSuffix)
}

// ReadSidecar parses the sidecar at path. See ParseSidecar.
func ReadSidecar(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &berrors.MetadataError{Path: path, Err: err}
	}
	record, err := ParseSidecar(data)
	if err != nil {
		return nil, &berrors.MetadataError{Path: path, Err: err}
	}
	return record, nil
}

// ParseSidecar parses a flat string-keyed record. YAML and JSON objects are
// both accepted. Scalar values are kept as written (no number or date
// conversion); null becomes "". Nested values and duplicate keys are errors.
func ParseSidecar(data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	record := make(map[string]string)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return record, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return record, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a key-value record", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: keys must be plain strings", key.Line)
		}
		if _, dup := record[key.Value]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %q", key.Line, key.Value)
		}
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: value of %q must be a scalar", value.Line, key.Value)
		}
		if value.ShortTag() == "!!null" {
			record[key.Value] = ""
			continue
		}
		record[key.Value] = value.Value
	}
	return record, nil
}

// splitTitle separates the title override from the remaining metadata fields.
// The returned fields never contain TitleKey.
func splitTitle(metadata map[string]string) (title string, ok bool, fields map[string]string) {
	fields = make(map[string]string, len(metadata))
	for k, v := range metadata {
		if k == TitleKey {
			continue
		}
		fields[k] = v
	}
	title, present := metadata[TitleKey]
	if !present || strings.TrimSpace(title) == "" {
		return "", false, fields
	}
	return title, true, fields
}
