package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Format is the serialization of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document wraps a raw wizard document and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format guesses the serialization from the location extension, falling back
// to sniffing the first byte.
func (d Document) Format() Format {
	switch strings.ToLower(path.Ext(d.Location())) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	trimmed := bytes.TrimSpace(d.raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Generic decodes the payload into plain maps and slices (JSON types only),
// the shape the JSON Schema validator expects.
func (d Document) Generic() (any, error) {
	if d.Format() == FormatJSON {
		var out any
		dec := json.NewDecoder(bytes.NewReader(d.raw))
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
		}
		return out, nil
	}
	var out any
	if err := yaml.Unmarshal(d.raw, &out); err != nil {
		return nil, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
	}
	return jsonCompatible(out), nil
}

// Decode parses the payload into a DocumentSchema.
func (d Document) Decode() (model.DocumentSchema, error) {
	var doc model.DocumentSchema
	var err error
	if d.Format() == FormatJSON {
		err = json.Unmarshal(d.raw, &doc)
	} else {
		err = yaml.Unmarshal(d.raw, &doc)
	}
	if err != nil {
		return model.DocumentSchema{}, fmt.Errorf("schema: decode %s: %w", d.Location(), err)
	}
	return doc, nil
}

// jsonCompatible rewrites YAML-decoded values into JSON types: integer
// scalars become float64 and map keys become strings.
func jsonCompatible(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = jsonCompatible(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = jsonCompatible(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonCompatible(item)
		}
		return out
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return v
	}
}
