package render

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

const textareaRows = 4

// ErrorFormatter turns a stored error entry into the text shown under the
// widget.
type ErrorFormatter func(field model.FieldDefinition, message string) string

// DefaultErrorFormatter substitutes {label} and {name} placeholders.
func DefaultErrorFormatter(field model.FieldDefinition, message string) string {
	return i18n.Format(message, i18n.Params{"label": field.Label, "name": field.Path()})
}

// FieldRenderer builds widgets from field definitions. It is safe for
// concurrent use; it never writes to the value store.
type FieldRenderer struct {
	evaluator  visibility.Evaluator
	provider   options.Provider
	uploader   FileUploader
	errors     formstate.ErrorStore
	formatter  ErrorFormatter
	translator i18n.Translator
	locale     string
	extras     map[string]any
	logger     *zap.Logger
}

// FieldOption configures a FieldRenderer.
type FieldOption func(*FieldRenderer)

// WithEvaluator sets the show_if engine.
func WithEvaluator(evaluator visibility.Evaluator) FieldOption {
	return func(r *FieldRenderer) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// WithProvider sets the dictionary lookup used when a field has no literal
// options.
func WithProvider(provider options.Provider) FieldOption {
	return func(r *FieldRenderer) { r.provider = provider }
}

// WithUploader sets the collaborator that owns file fields.
func WithUploader(uploader FileUploader) FieldOption {
	return func(r *FieldRenderer) {
		if uploader != nil {
			r.uploader = uploader
		}
	}
}

// WithErrorStore overrides where widget errors are read from. By default the
// value store is used when it also implements formstate.ErrorStore.
func WithErrorStore(errs formstate.ErrorStore) FieldOption {
	return func(r *FieldRenderer) { r.errors = errs }
}

// WithErrorFormatter customizes how error entries are displayed.
func WithErrorFormatter(formatter ErrorFormatter) FieldOption {
	return func(r *FieldRenderer) {
		if formatter != nil {
			r.formatter = formatter
		}
	}
}

// WithTranslator sets the translator and locale for built-in captions and
// option labels.
func WithTranslator(translator i18n.Translator, locale string) FieldOption {
	return func(r *FieldRenderer) {
		r.translator = translator
		r.locale = strings.TrimSpace(locale)
	}
}

// WithVisibilityExtras exposes extra values to show_if rules as `extras.*`.
func WithVisibilityExtras(extras map[string]any) FieldOption {
	return func(r *FieldRenderer) { r.extras = extras }
}

// WithLogger sets the logger used for soft failures.
func WithLogger(logger *zap.Logger) FieldOption {
	return func(r *FieldRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewFieldRenderer builds a renderer. Defaults: every field visible, no
// dictionaries, NoopUploader, DefaultErrorFormatter, nop logger.
func NewFieldRenderer(opts ...FieldOption) *FieldRenderer {
	r := &FieldRenderer{
		evaluator: visibility.Always,
		formatter: DefaultErrorFormatter,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.uploader == nil {
		r.uploader = NoopUploader{Translator: r.translator}
	}
	return r
}

// Locale returns the locale used for built-in captions.
func (r *FieldRenderer) Locale() string { return r.locale }

// Render returns the widget for field, or (nil, false) when its show_if rule
// hides it. Unknown field types render WidgetUnsupported.
func (r *FieldRenderer) Render(field model.FieldDefinition, values formstate.ValueStore) (*Widget, bool) {
	if !r.visible(field, values) {
		return nil, false
	}

	name := field.Path()
	binding := NewBinding(name, values)
	widget := &Widget{
		Name:      name,
		FieldType: field.Type,
		Label:     field.Label,
		Required:  field.Required(),
		Min:       field.Min,
		Max:       field.Max,
		Binding:   binding,
		Error:     r.errorFor(field, values),
	}

	switch field.Type {
	case model.FieldTypeText, model.FieldTypeNumber, model.FieldTypeDate:
		widget.Kind = WidgetInput
		widget.InputType = string(field.Type)
		widget.Value = scalarValue(binding)
	case model.FieldTypeTextarea:
		widget.Kind = WidgetTextarea
		widget.Rows = textareaRows
		widget.Placeholder = field.Label
		widget.Value = scalarValue(binding)
	case model.FieldTypeCheckbox:
		widget.Kind = WidgetCheckbox
		widget.Checked = binding.Bool()
		widget.Value = widget.Checked
	case model.FieldTypeSelect:
		widget.Kind = WidgetSelect
		widget.Value = scalarValue(binding)
		prompt := WidgetOption{
			Value: "",
			Label: i18n.Translate(r.translator, r.locale, "render.select.prompt", "Choose..."),
		}
		widget.Options = append([]WidgetOption{prompt}, r.options(field, binding, false)...)
	case model.FieldTypeMultiSelect:
		widget.Kind = WidgetMultiSelect
		widget.Value = binding.List()
		widget.Options = r.options(field, binding, true)
	case model.FieldTypeRadio:
		widget.Kind = WidgetRadio
		widget.Value = scalarValue(binding)
		widget.Options = r.options(field, binding, false)
	case model.FieldTypeCheckboxGroup:
		widget.Kind = WidgetCheckboxGroup
		widget.Value = binding.List()
		widget.Options = r.options(field, binding, true)
	case model.FieldTypeTypeahead, model.FieldTypeTypeaheadMultiSelect:
		widget.Kind = WidgetInput
		widget.InputType = "text"
		widget.Placeholder = field.Label
		widget.Value = scalarValue(binding)
	case model.FieldTypeDateTime:
		widget.Kind = WidgetInput
		widget.InputType = "datetime-local"
		widget.Value = scalarValue(binding)
	case model.FieldTypeAuto:
		widget.Kind = WidgetReadOnly
		widget.Value = scalarValue(binding)
	case model.FieldTypeGroup:
		widget.Kind = WidgetGroup
		widget.InputType = "text"
		widget.Caption = i18n.Translate(r.translator, r.locale, "render.group.caption", "Field group (array)")
		widget.Placeholder = i18n.Translate(r.translator, r.locale, "render.group.placeholder", "Enter data for {label}", i18n.Params{"label": field.Label})
		widget.Value = scalarValue(binding)
	case model.FieldTypeFile:
		widget.Kind = WidgetFile
		spec := r.uploader.Describe(field, r.locale)
		widget.Upload = &spec
		if value, ok := binding.Value(); ok {
			widget.Value = value
		}
	default:
		widget.Kind = WidgetUnsupported
		widget.Message = i18n.Translate(r.translator, r.locale, "render.unsupported", `Field type "{type}" is not supported`, i18n.Params{"type": string(field.Type)})
		r.logger.Debug("unsupported field type", zap.String("field", name), zap.String("type", string(field.Type)))
	}

	widget.Text = model.FormatValue(widget.Value)
	if widget.MultiValued() || widget.Kind == WidgetCheckbox {
		widget.Text = ""
	}
	return widget, true
}

// RenderAll renders every visible field in order.
func (r *FieldRenderer) RenderAll(fields []model.FieldDefinition, values formstate.ValueStore) []*Widget {
	out := make([]*Widget, 0, len(fields))
	for _, field := range fields {
		if widget, ok := r.Render(field, values); ok {
			out = append(out, widget)
		}
	}
	return out
}

// Visible reports whether field's show_if rule passes for values.
func (r *FieldRenderer) Visible(field model.FieldDefinition, values formstate.ValueStore) bool {
	return r.visible(field, values)
}

func (r *FieldRenderer) visible(field model.FieldDefinition, values formstate.ValueStore) bool {
	rule := strings.TrimSpace(field.ShowIf)
	if rule == "" {
		return true
	}
	ok, err := r.evaluator.Eval(field.Path(), rule, visibilityContext(values, r.extras))
	if err != nil {
		r.logger.Warn("show_if evaluation failed, showing field",
			zap.String("field", field.Path()),
			zap.String("rule", rule),
			zap.Error(err),
		)
		return true
	}
	return ok
}

func visibilityContext(values formstate.ValueStore, extras map[string]any) visibility.Context {
	ctx := visibility.Context{Extras: extras}
	if values == nil {
		return ctx
	}
	ctx.Lookup = values.Value
	if nested, ok := values.(interface{ Nested() map[string]any }); ok {
		ctx.Values = nested.Nested()
	}
	return ctx
}

func (r *FieldRenderer) errorFor(field model.FieldDefinition, values formstate.ValueStore) string {
	errs := r.errors
	if errs == nil {
		errs, _ = values.(formstate.ErrorStore)
	}
	if errs == nil {
		return ""
	}
	msg, ok := errs.Error(field.Path())
	if !ok || strings.TrimSpace(msg) == "" {
		return ""
	}
	return r.formatter(field, msg)
}

func (r *FieldRenderer) options(field model.FieldDefinition, binding Binding, multi bool) []WidgetOption {
	resolved := options.Normalizer{Translator: r.translator, Locale: r.locale}.Resolve(field, r.provider)
	if len(resolved) == 0 {
		return nil
	}

	var (
		current  any
		selected []any
	)
	if multi {
		selected = binding.List()
	} else {
		current, _ = binding.Value()
	}

	out := make([]WidgetOption, 0, len(resolved))
	for _, opt := range resolved {
		item := WidgetOption{
			Value: opt.Value,
			Text:  model.FormatValue(opt.Value),
			Label: opt.Label,
		}
		if multi {
			item.Selected = containsOption(selected, opt.Value)
		} else {
			item.Selected = current != nil && sameOption(current, opt.Value)
		}
		out = append(out, item)
	}
	return out
}

// MatchOption maps posted text back onto the typed option value. Unknown text
// is returned unchanged.
func MatchOption(opts []WidgetOption, text string) any {
	for _, opt := range opts {
		if opt.Text == text && opt.Value != "" {
			return opt.Value
		}
	}
	return text
}

func sameOption(value, option any) bool {
	return formstate.Equal(value, option) || model.FormatValue(value) == model.FormatValue(option)
}

func containsOption(list []any, option any) bool {
	for _, item := range list {
		if sameOption(item, option) {
			return true
		}
	}
	return false
}

func scalarValue(binding Binding) any {
	value, ok := binding.Value()
	if !ok || value == nil {
		return ""
	}
	return value
}
