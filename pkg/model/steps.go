package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// StepType enumerates the wizard step layouts.
type StepType string

const (
	StepTypeForm              StepType = "form"
	StepTypeRadio             StepType = "radio"
	StepTypeNumber            StepType = "number"
	StepTypeArray             StepType = "array"
	StepTypeCheckboxGroup     StepType = "checkbox-group"
	StepTypeValidation        StepType = "validation"
	StepTypeFinal             StepType = "final"
	StepTypeInputMode         StepType = "input-mode"
	StepTypeMultiSelect       StepType = "multiselect"
	StepTypeDynamicMultiBlock StepType = "dynamic-multi-block"
	StepTypeBankSelection     StepType = "bank-selection"
)

// StepDefinition is one screen of the wizard.
type StepDefinition struct {
	ID               string                       `json:"id" yaml:"id"`
	Type             StepType                     `json:"type" yaml:"type"`
	Title            string                       `json:"title,omitempty" yaml:"title,omitempty"`
	Label            string                       `json:"label,omitempty" yaml:"label,omitempty"`
	InputModeField   string                       `json:"input_mode_field,omitempty" yaml:"input_mode_field,omitempty"`
	Min              *float64                     `json:"min,omitempty" yaml:"min,omitempty"`
	Max              *float64                     `json:"max,omitempty" yaml:"max,omitempty"`
	DynamicCountFrom string                       `json:"dynamicCountFrom,omitempty" yaml:"dynamicCountFrom,omitempty"`
	ItemLabel        string                       `json:"item_label,omitempty" yaml:"item_label,omitempty"`
	Fields           []FieldDefinition            `json:"fields,omitempty" yaml:"fields,omitempty"`
	ManualFields     []FieldDefinition            `json:"manual_fields,omitempty" yaml:"manual_fields,omitempty"`
	Options          []RawOption                  `json:"options,omitempty" yaml:"options,omitempty"`
	OptionsFrom      string                       `json:"optionsFrom,omitempty" yaml:"optionsFrom,omitempty"`
	SelectAll        bool                         `json:"select_all,omitempty" yaml:"select_all,omitempty"`
	Blocks           map[string][]FieldDefinition `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	BankCardTemplate *FieldTemplate               `json:"bank_card_template,omitempty" yaml:"bank_card_template,omitempty"`
	Validation       *StepValidation              `json:"validation,omitempty" yaml:"validation,omitempty"`
	Rules            []string                     `json:"rules,omitempty" yaml:"rules,omitempty"`
	Next             NextRule                     `json:"next,omitempty" yaml:"next,omitempty"`
	Output           string                       `json:"output,omitempty" yaml:"output,omitempty"`
}

// Heading returns the first non-empty of title, label and id.
func (s StepDefinition) Heading() string {
	for _, candidate := range []string{s.Title, s.Label, s.ID} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// FieldTemplate is a repeated block of fields (bank cards, array items).
type FieldTemplate struct {
	Fields []FieldDefinition `json:"fields" yaml:"fields"`
}

// StepValidation mirrors the per-step constraints declared by documents.
// Like field min/max these are informational only.
type StepValidation struct {
	Min      *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`
}

// NextRule describes where the wizard goes after a step. Exactly one of the
// representations is populated; the zero value means "the following step".
type NextRule struct {
	Step       string
	ByValue    map[string]string
	Candidates []string
}

// IsZero reports whether no explicit transition was declared.
func (n NextRule) IsZero() bool {
	return n.Step == "" && len(n.ByValue) == 0 && len(n.Candidates) == 0
}

func (n *NextRule) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = NextRule{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var step string
		if err := json.Unmarshal(trimmed, &step); err != nil {
			return fmt.Errorf("model: decode next: %w", err)
		}
		*n = NextRule{Step: strings.TrimSpace(step)}
	case '{':
		var byValue map[string]string
		if err := json.Unmarshal(trimmed, &byValue); err != nil {
			return fmt.Errorf("model: decode next map: %w", err)
		}
		*n = NextRule{ByValue: byValue}
	case '[':
		var candidates []string
		if err := json.Unmarshal(trimmed, &candidates); err != nil {
			return fmt.Errorf("model: decode next list: %w", err)
		}
		*n = NextRule{Candidates: candidates}
	default:
		return fmt.Errorf("model: next must be a string, map or list, got %s", string(trimmed))
	}
	return nil
}

func (n NextRule) MarshalJSON() ([]byte, error) {
	switch {
	case n.Step != "":
		return json.Marshal(n.Step)
	case len(n.ByValue) > 0:
		return json.Marshal(n.ByValue)
	case len(n.Candidates) > 0:
		return json.Marshal(n.Candidates)
	default:
		return []byte("null"), nil
	}
}

func (n NextRule) MarshalYAML() (any, error) {
	switch {
	case n.Step != "":
		return n.Step, nil
	case len(n.ByValue) > 0:
		return n.ByValue, nil
	case len(n.Candidates) > 0:
		return n.Candidates, nil
	default:
		return nil, nil
	}
}

func (n *NextRule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var step string
		if err := node.Decode(&step); err != nil {
			return fmt.Errorf("model: decode next: %w", err)
		}
		*n = NextRule{Step: strings.TrimSpace(step)}
	case yaml.MappingNode:
		var byValue map[string]string
		if err := node.Decode(&byValue); err != nil {
			return fmt.Errorf("model: decode next map: %w", err)
		}
		*n = NextRule{ByValue: byValue}
	case yaml.SequenceNode:
		var candidates []string
		if err := node.Decode(&candidates); err != nil {
			return fmt.Errorf("model: decode next list: %w", err)
		}
		*n = NextRule{Candidates: candidates}
	default:
		return fmt.Errorf("model: next must be a string, map or list (line %d)", node.Line)
	}
	return nil
}

// DocumentSchema is a complete wizard document.
type DocumentSchema struct {
	ID             int          `json:"id" yaml:"id"`
	Code           string       `json:"code" yaml:"code"`
	Title          string       `json:"title" yaml:"title"`
	Category       string       `json:"category" yaml:"category"`
	DevNotes       []string     `json:"dev_notes,omitempty" yaml:"dev_notes,omitempty"`
	RulesForCursor []string     `json:"rules_for_cursor,omitempty" yaml:"rules_for_cursor,omitempty"`
	Parsed         ParsedSchema `json:"parsed" yaml:"parsed"`
}

// ParsedSchema holds the ordered steps and document placeholders.
type ParsedSchema struct {
	Steps        []StepDefinition `json:"steps" yaml:"steps"`
	Placeholders []string         `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// Steps is a shortcut for Parsed.Steps.
func (d DocumentSchema) Steps() []StepDefinition {
	return d.Parsed.Steps
}

// StepIndex returns the position of the step with the given id, or -1.
func (d DocumentSchema) StepIndex(id string) int {
	id = strings.TrimSpace(id)
	for idx, step := range d.Parsed.Steps {
		if step.ID == id {
			return idx
		}
	}
	return -1
}

// Step looks up a step by id.
func (d DocumentSchema) Step(id string) (StepDefinition, bool) {
	idx := d.StepIndex(id)
	if idx < 0 {
		return StepDefinition{}, false
	}
	return d.Parsed.Steps[idx], true
}
