package model

import "strings"

// FieldType enumerates the widget kinds a field definition can request.
type FieldType string

const (
	FieldTypeText                 FieldType = "text"
	FieldTypeNumber               FieldType = "number"
	FieldTypeDate                 FieldType = "date"
	FieldTypeFile                 FieldType = "file"
	FieldTypeCheckbox             FieldType = "checkbox"
	FieldTypeMultiSelect          FieldType = "multiselect"
	FieldTypeRadio                FieldType = "radio"
	FieldTypeTextarea             FieldType = "textarea"
	FieldTypeSelect               FieldType = "select"
	FieldTypeTypeahead            FieldType = "typeahead"
	FieldTypeTypeaheadMultiSelect FieldType = "typeahead-multiselect"
	FieldTypeDateTime             FieldType = "datetime"
	FieldTypeAuto                 FieldType = "auto"
	FieldTypeGroup                FieldType = "group"
	FieldTypeCheckboxGroup        FieldType = "checkbox-group"
)

var supportedFieldTypes = map[FieldType]struct{}{
	FieldTypeText:                 {},
	FieldTypeNumber:               {},
	FieldTypeDate:                 {},
	FieldTypeFile:                 {},
	FieldTypeCheckbox:             {},
	FieldTypeMultiSelect:          {},
	FieldTypeRadio:                {},
	FieldTypeTextarea:             {},
	FieldTypeSelect:               {},
	FieldTypeTypeahead:            {},
	FieldTypeTypeaheadMultiSelect: {},
	FieldTypeDateTime:             {},
	FieldTypeAuto:                 {},
	FieldTypeGroup:                {},
	FieldTypeCheckboxGroup:        {},
}

// FieldTypes returns the supported field types in declaration order.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldTypeText,
		FieldTypeNumber,
		FieldTypeDate,
		FieldTypeFile,
		FieldTypeCheckbox,
		FieldTypeMultiSelect,
		FieldTypeRadio,
		FieldTypeTextarea,
		FieldTypeSelect,
		FieldTypeTypeahead,
		FieldTypeTypeaheadMultiSelect,
		FieldTypeDateTime,
		FieldTypeAuto,
		FieldTypeGroup,
		FieldTypeCheckboxGroup,
	}
}

// Supported reports whether the renderer knows how to draw the type.
func (t FieldType) Supported() bool {
	_, ok := supportedFieldTypes[t]
	return ok
}

// MultiValued reports whether the bound value is an array.
func (t FieldType) MultiValued() bool {
	return t == FieldTypeMultiSelect || t == FieldTypeCheckboxGroup
}

// FieldDefinition describes a single input inside a wizard step.
type FieldDefinition struct {
	Name       string      `json:"name" yaml:"name"`
	Type       FieldType   `json:"type" yaml:"type"`
	Label      string      `json:"label" yaml:"label"`
	Min        *float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Dictionary string      `json:"dictionary,omitempty" yaml:"dictionary,omitempty"`
	ShowIf     string      `json:"show_if,omitempty" yaml:"show_if,omitempty"`
	Options    []RawOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// Required reports whether the field should display a required marker. The
// marker is cosmetic: min/max are not enforced when a step is submitted.
func (f FieldDefinition) Required() bool {
	return f.Min != nil && *f.Min > 0
}

// Path returns the trimmed value-store key for the field.
func (f FieldDefinition) Path() string {
	return strings.TrimSpace(f.Name)
}

// Float is a small helper for building bounds in code and tests.
func Float(v float64) *float64 {
	return &v
}
