package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Option is a normalized selectable entry.
type Option struct {
	Value any    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// RawOption is an option exactly as it appears in a document: either a bare
// scalar (string, number, bool) or a {value, label} pair.
type RawOption struct {
	Scalar any
	Pair   *Option
}

// ScalarOption wraps a bare scalar.
func ScalarOption(value any) RawOption {
	return RawOption{Scalar: normalizeScalar(value)}
}

// PairOption wraps a {value, label} pair.
func PairOption(value any, label string) RawOption {
	return RawOption{Pair: &Option{Value: normalizeScalar(value), Label: label}}
}

// ScalarOptions wraps a list of bare scalars.
func ScalarOptions[T any](values ...T) []RawOption {
	out := make([]RawOption, 0, len(values))
	for _, v := range values {
		out = append(out, ScalarOption(v))
	}
	return out
}

// IsPair reports whether the option was declared with an explicit label.
func (o RawOption) IsPair() bool {
	return o.Pair != nil
}

// Value returns the option value regardless of its declared shape.
func (o RawOption) Value() any {
	if o.Pair != nil {
		return o.Pair.Value
	}
	return o.Scalar
}

func (o *RawOption) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var pair Option
		if err := json.Unmarshal(trimmed, &pair); err != nil {
			return fmt.Errorf("model: decode option pair: %w", err)
		}
		pair.Value = normalizeScalar(pair.Value)
		*o = RawOption{Pair: &pair}
		return nil
	}

	var scalar any
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return fmt.Errorf("model: decode option: %w", err)
	}
	switch scalar.(type) {
	case string, float64, bool:
	default:
		return fmt.Errorf("model: option must be a scalar or {value,label}, got %s", string(trimmed))
	}
	*o = RawOption{Scalar: scalar}
	return nil
}

func (o RawOption) MarshalJSON() ([]byte, error) {
	if o.Pair != nil {
		return json.Marshal(o.Pair)
	}
	return json.Marshal(o.Scalar)
}

func (o RawOption) MarshalYAML() (any, error) {
	if o.Pair != nil {
		return o.Pair, nil
	}
	return o.Scalar, nil
}

func (o *RawOption) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		var pair Option
		if err := node.Decode(&pair); err != nil {
			return fmt.Errorf("model: decode option pair: %w", err)
		}
		pair.Value = normalizeScalar(pair.Value)
		*o = RawOption{Pair: &pair}
		return nil
	case yaml.ScalarNode:
		var scalar any
		if err := node.Decode(&scalar); err != nil {
			return fmt.Errorf("model: decode option: %w", err)
		}
		*o = RawOption{Scalar: normalizeScalar(scalar)}
		return nil
	default:
		return fmt.Errorf("model: option must be a scalar or {value,label} (line %d)", node.Line)
	}
}

// normalizeScalar folds the numeric types produced by the YAML decoder and Go
// callers into float64 so values compare the same way as JSON-decoded ones.
func normalizeScalar(value any) any {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case uint:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	default:
		return value
	}
}

// FormatValue renders a scalar the way it appears in labels and form posts.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
