package render

import (
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// WidgetKind identifies the control an output renderer must draw.
type WidgetKind string

const (
	WidgetInput         WidgetKind = "input"
	WidgetTextarea      WidgetKind = "textarea"
	WidgetCheckbox      WidgetKind = "checkbox"
	WidgetSelect        WidgetKind = "select"
	WidgetMultiSelect   WidgetKind = "multiselect"
	WidgetRadio         WidgetKind = "radio"
	WidgetCheckboxGroup WidgetKind = "checkbox-group"
	WidgetReadOnly      WidgetKind = "readonly"
	WidgetGroup         WidgetKind = "group"
	WidgetFile          WidgetKind = "file"
	WidgetUnsupported   WidgetKind = "unsupported"
)

// Widget is a renderer-neutral description of one bound control.
type Widget struct {
	Kind        WidgetKind      `json:"kind"`
	Name        string          `json:"name"`
	FieldType   model.FieldType `json:"fieldType"`
	Label       string          `json:"label,omitempty"`
	InputType   string          `json:"inputType,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Caption     string          `json:"caption,omitempty"`
	Rows        int             `json:"rows,omitempty"`
	Required    bool            `json:"required,omitempty"`
	Value       any             `json:"value,omitempty"`
	Text        string          `json:"text,omitempty"`
	Checked     bool            `json:"checked,omitempty"`
	Options     []WidgetOption  `json:"options,omitempty"`
	Error       string          `json:"error,omitempty"`
	Message     string          `json:"message,omitempty"`
	Upload      *UploadSpec     `json:"upload,omitempty"`
	Min         *float64        `json:"min,omitempty"`
	Max         *float64        `json:"max,omitempty"`

	Binding Binding `json:"-"`
}

// MultiValued reports whether the widget posts a list of values.
func (w *Widget) MultiValued() bool {
	return w != nil && (w.Kind == WidgetMultiSelect || w.Kind == WidgetCheckboxGroup)
}

// WidgetOption is a selectable entry with its current selection state.
type WidgetOption struct {
	Value    any    `json:"value"`
	Text     string `json:"text"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Binding connects a widget to the value store. Reads come from the store on
// every call; writes go through SetValue.
type Binding struct {
	name  string
	store formstate.ValueStore
}

// NewBinding binds name to store.
func NewBinding(name string, store formstate.ValueStore) Binding {
	return Binding{name: name, store: store}
}

// Name returns the bound value-store path.
func (b Binding) Name() string { return b.name }

// Value reads the current value.
func (b Binding) Value() (any, bool) {
	if b.store == nil {
		return nil, false
	}
	return b.store.Value(b.name)
}

// Set writes a new value.
func (b Binding) Set(value any) error {
	if b.store == nil {
		return fmt.Errorf("render: binding %q has no store", b.name)
	}
	return b.store.SetValue(b.name, value)
}

// Bool reads the value as a checkbox state; absent means false.
func (b Binding) Bool() bool {
	value, ok := b.Value()
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "on" || v == "1"
	default:
		return false
	}
}

// List reads the value as a list; absent or scalar values yield an empty list.
func (b Binding) List() []any {
	value, _ := b.Value()
	return formstate.AsList(value)
}

// Toggle adds value to (on) or removes it from (off) the bound list and
// writes the new list back.
func (b Binding) Toggle(value any, on bool) error {
	current, _ := b.Value()
	return b.Set(formstate.Toggle(current, value, on))
}
