package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/typemeta/dynamic"
)

// format is a document encoding chosen by file extension.
type format string

const (
	formatJSON format = "json"
	formatYAML format = "yaml"
	formatTOML format = "toml"
)

func formatOf(path string) (format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return "", fmt.Errorf("unsupported document format %q", ext)
	}
}

// loadDocument decodes the file at path into a dynamic object.
func loadDocument(path string) (dynamic.Object, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc := dynamic.NewObject()
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, &doc)
	case formatYAML:
		err = yaml.Unmarshal(data, &doc)
	case formatTOML:
		err = toml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s document %s: %w", f, path, err)
	}
	if doc == nil {
		doc = dynamic.NewObject()
	}
	return doc, nil
}

// saveDocument encodes doc back into the file at path, in the format its
// extension names.
func saveDocument(path string, doc dynamic.Object) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch f {
	case formatTOML:
		err = toml.NewEncoder(&buf).Encode(map[string]any(doc))
	default:
		err = writeValue(&buf, doc, f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", f, err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// writeValue prints value as indented JSON or YAML.
func writeValue(w io.Writer, value any, f format) error {
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	}
}

// parseScalar reads a command line value the way YAML would, so "8080"
// becomes a number and "true" a bool. Anything else stays a string.
func parseScalar(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	switch v.(type) {
	case map[string]any, []any:
		return v
	case nil:
		if strings.TrimSpace(raw) == "null" || strings.TrimSpace(raw) == "~" {
			return nil
		}
		return raw
	}
	return v
}

// normalize round-trips value through JSON so documents decoded from
// different formats compare with the same scalar types.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
