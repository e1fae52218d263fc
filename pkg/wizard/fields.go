package wizard

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// Input modes offered by input-mode steps.
const (
	InputModeManual = "manual"
	InputModeOCR    = "ocr"
)

// maxRepeat caps repeated blocks when a step declares no max.
const maxRepeat = 50

// Section is a titled group of fields. Plain steps have one untitled
// section; array-like steps have one per item.
type Section struct {
	Title  string
	Fields []model.FieldDefinition
}

// Fields flattens Sections(step).
func (s *Session) Fields(step model.StepDefinition) []model.FieldDefinition {
	var out []model.FieldDefinition
	for _, section := range s.Sections(step) {
		out = append(out, section.Fields...)
	}
	return out
}

// Sections turns a step into its field definitions, synthesizing fields for
// steps that bind a single answer and repeating templates for array steps.
func (s *Session) Sections(step model.StepDefinition) []Section {
	switch step.Type {
	case model.StepTypeForm:
		return single(step.Fields)
	case model.StepTypeRadio, model.StepTypeMultiSelect, model.StepTypeCheckboxGroup:
		return single([]model.FieldDefinition{{
			Name:       step.ID,
			Type:       model.FieldType(step.Type),
			Label:      step.Heading(),
			Dictionary: step.OptionsFrom,
			Options:    step.Options,
			Min:        step.Min,
			Max:        step.Max,
		}})
	case model.StepTypeNumber:
		return single([]model.FieldDefinition{{
			Name:  step.ID,
			Type:  model.FieldTypeNumber,
			Label: step.Heading(),
			Min:   step.Min,
			Max:   step.Max,
		}})
	case model.StepTypeInputMode:
		return single(s.inputModeFields(step))
	case model.StepTypeArray:
		return s.repeat(step, step.Fields)
	case model.StepTypeDynamicMultiBlock:
		if len(step.Blocks) > 0 && strings.TrimSpace(step.OptionsFrom) != "" {
			return s.blocks(step)
		}
		return s.repeat(step, step.Fields)
	case model.StepTypeBankSelection:
		if step.BankCardTemplate == nil {
			return nil
		}
		return s.repeat(step, step.BankCardTemplate.Fields)
	default:
		// validation, final and unknown step types carry no inputs.
		return nil
	}
}

func single(fields []model.FieldDefinition) []Section {
	if len(fields) == 0 {
		return nil
	}
	return []Section{{Fields: fields}}
}

func (s *Session) inputModeFields(step model.StepDefinition) []model.FieldDefinition {
	path := BoundPath(step)
	fields := []model.FieldDefinition{{
		Name:  path,
		Type:  model.FieldTypeRadio,
		Label: step.Heading(),
		Options: []model.RawOption{
			model.PairOption(InputModeManual, i18n.Translate(s.translator, s.locale, "render.input_mode.manual", "Enter manually")),
			model.PairOption(InputModeOCR, i18n.Translate(s.translator, s.locale, "render.input_mode.ocr", "Scan a document")),
		},
	}}

	switch s.boundText(step) {
	case InputModeManual:
		fields = append(fields, step.ManualFields...)
	case InputModeOCR:
		fields = append(fields, model.FieldDefinition{
			Name:  step.ID + ".document",
			Type:  model.FieldTypeFile,
			Label: i18n.Translate(s.translator, s.locale, "render.file.hint", "Upload a document"),
		})
	}
	return fields
}

// repeat prefixes template fields with <step>.<i>. for each item.
func (s *Session) repeat(step model.StepDefinition, template []model.FieldDefinition) []Section {
	if len(template) == 0 {
		return nil
	}
	count := s.Count(step)
	out := make([]Section, 0, count)
	for i := 0; i < count; i++ {
		prefix := step.ID + "." + strconv.Itoa(i) + "."
		out = append(out, Section{
			Title:  s.itemTitle(step, i+1),
			Fields: prefixed(prefix, template),
		})
	}
	return out
}

// blocks renders one section per value selected in the optionsFrom answer
// that has a matching block.
func (s *Session) blocks(step model.StepDefinition) []Section {
	selected, _ := s.store.Value(step.OptionsFrom)
	var out []Section
	for _, value := range formstate.AsList(selected) {
		key := model.FormatValue(value)
		fields, ok := step.Blocks[key]
		if !ok || len(fields) == 0 {
			continue
		}
		out = append(out, Section{
			Title:  s.optionLabel(step.OptionsFrom, key),
			Fields: prefixed(step.ID+"."+key+".", fields),
		})
	}
	return out
}

func prefixed(prefix string, template []model.FieldDefinition) []model.FieldDefinition {
	out := make([]model.FieldDefinition, 0, len(template))
	for _, field := range template {
		field.Name = prefix + field.Path()
		out = append(out, field)
	}
	return out
}

func (s *Session) itemTitle(step model.StepDefinition, n int) string {
	if label := strings.TrimSpace(step.ItemLabel); label != "" {
		return label + " " + strconv.Itoa(n)
	}
	return i18n.Translate(s.translator, s.locale, "wizard.item", "Item {index}", i18n.Params{"index": n})
}

// optionLabel finds the label of value among the options of the step with
// id stepID, falling back to value itself.
func (s *Session) optionLabel(stepID, value string) string {
	step, ok := s.doc.Step(stepID)
	if !ok {
		return value
	}
	for _, raw := range step.Options {
		if raw.Pair != nil && model.FormatValue(raw.Pair.Value) == value {
			return raw.Pair.Label
		}
	}
	return value
}

// Count returns how many items an array-like step repeats: the number stored
// at dynamicCountFrom, else min, else one, clamped to [min, max].
func (s *Session) Count(step model.StepDefinition) int {
	count := 1
	if step.Min != nil {
		count = int(*step.Min)
	}
	if from := strings.TrimSpace(step.DynamicCountFrom); from != "" {
		if value, ok := s.store.Value(from); ok {
			if n, ok := toInt(value); ok {
				count = n
			}
		}
	}

	lower, upper := 0, maxRepeat
	if step.Min != nil && *step.Min > 0 {
		lower = int(*step.Min)
	}
	if step.Max != nil && *step.Max >= 0 && int(*step.Max) < upper {
		upper = int(*step.Max)
	}
	if count < lower {
		count = lower
	}
	if count > upper {
		count = upper
	}
	return count
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}
