package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/account"
	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Name identifies the renderer in a render.Registry.
const Name = "tui"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Renderer walks pages, wizard sessions and account forms on a terminal.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	styles            Styles
	translator        i18n.Translator
	locale            string
	provider          options.Provider
	evaluator         visibility.Evaluator
	navigation        bool
	logger            *zap.Logger
}

// assignFunc stores an answer. A non-empty problem re-asks the widget.
type assignFunc func(widget *render.Widget, value any) (problem string, err error)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(opts ...Option) *Renderer {
	r := &Renderer{
		driver:       NewSurveyDriver(),
		outputFormat: OutputFormatJSON,
		styles:       DefaultStyles(),
		translator:   i18n.Default(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every widget on the page and serializes the answers.
// Answers are written through the widget bindings as well.
func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	locale := firstNonEmpty(opts.Locale, page.Locale, r.locale)

	if !opts.Partial && page.Title != "" {
		if err := r.driver.Info(ctx, r.styles.Title.Render(page.Title)); err != nil {
			return nil, err
		}
	}

	collected := formstate.NewStore(nil)
	assign := func(widget *render.Widget, value any) (string, error) {
		if err := widget.Binding.Set(value); err != nil {
			return "", err
		}
		return "", collected.SetValue(widget.Binding.Name(), value)
	}

	for _, widget := range page.Widgets {
		if err := r.promptWidget(ctx, widget, locale, assign); err != nil {
			return nil, err
		}
	}
	for _, section := range page.Sections {
		if section.Title != "" {
			if err := r.driver.Info(ctx, r.styles.Section.Render(section.Title)); err != nil {
				return nil, err
			}
		}
		for _, widget := range section.Widgets {
			if err := r.promptWidget(ctx, widget, locale, assign); err != nil {
				return nil, err
			}
		}
	}

	return r.finish(collected.Nested())
}

// RunWizard walks the session from its current step to the final one,
// submits it and returns the serialized answers. Widgets are recomputed
// after every answer so input-mode switches and show_if rules apply
// immediately. Documents without a final step end on their last step.
func (r *Renderer) RunWizard(ctx context.Context, session *wizard.Session) ([]byte, error) {
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	locale := firstNonEmpty(r.locale, session.Locale())
	fields := r.fieldRenderer(session.Store(), locale)
	assign := func(widget *render.Widget, value any) (string, error) {
		return "", widget.Binding.Set(value)
	}

	doc := session.Document()
	if err := r.driver.Info(ctx, r.styles.Title.Render(doc.Title)); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := session.Current()
		r.logger.Debug("wizard step", zap.String("step", step.ID), zap.Int("index", session.Index()))

		heading := r.tr(locale, "tui.step", "Step {index} of {total}", i18n.Params{
			"index": session.Index() + 1,
			"total": session.Total(),
		})
		if err := r.driver.Info(ctx, r.styles.Muted.Render(heading)+" "+r.styles.Heading.Render(step.Heading())); err != nil {
			return nil, err
		}
		if step.Type == model.StepTypeValidation {
			page := session.Page(fields, "")
			if err := r.driver.Info(ctx, r.styles.Muted.Render(page.Description)); err != nil {
				return nil, err
			}
		}

		if err := r.promptStep(ctx, session, step, fields, locale, assign); err != nil {
			return nil, err
		}

		if session.IsFinal() {
			done, err := r.finalStep(ctx, session, fields, locale)
			if err != nil {
				return nil, err
			}
			if done {
				return r.finish(session.Store().Nested())
			}
			continue
		}

		if r.navigation && session.CanGoBack() {
			choice, err := r.driver.Select(ctx, SelectConfig{
				Message: step.Heading(),
				Options: []string{
					r.tr(locale, "tui.continue", "Continue"),
					r.tr(locale, "tui.go_back", "Go back"),
				},
			})
			if err != nil {
				return nil, err
			}
			if choice == 1 {
				session.Back()
				continue
			}
		}

		if _, err := session.Next(); err != nil {
			if errors.Is(err, wizard.ErrLastStep) {
				return r.finish(session.Store().Nested())
			}
			return nil, err
		}
	}
}

func (r *Renderer) promptStep(ctx context.Context, session *wizard.Session, step model.StepDefinition, fields *render.FieldRenderer, locale string, assign assignFunc) error {
	asked := make(map[string]bool)
	shown := make(map[string]bool)
	for {
		widget, title := nextWidget(session, step, fields, asked)
		if widget == nil {
			return nil
		}
		if title != "" && !shown[title] {
			shown[title] = true
			if err := r.driver.Info(ctx, r.styles.Section.Render(title)); err != nil {
				return err
			}
		}
		asked[widget.Name] = true
		if err := r.promptWidget(ctx, widget, locale, assign); err != nil {
			return err
		}
	}
}

func nextWidget(session *wizard.Session, step model.StepDefinition, fields *render.FieldRenderer, asked map[string]bool) (*render.Widget, string) {
	store := session.Store()
	for _, section := range session.Sections(step) {
		for _, widget := range fields.RenderAll(section.Fields, store) {
			if !asked[widget.Name] {
				return widget, section.Title
			}
		}
	}
	return nil, ""
}

// finalStep shows the summary and asks for confirmation. Declining goes back
// one step, or aborts when there is nowhere to go.
func (r *Renderer) finalStep(ctx context.Context, session *wizard.Session, fields *render.FieldRenderer, locale string) (bool, error) {
	page := session.Page(fields, "")
	if err := r.driver.Info(ctx, r.styles.Section.Render(r.tr(locale, "wizard.summary", "Summary"))); err != nil {
		return false, err
	}
	for _, line := range prettyLines(page.Summary) {
		if err := r.driver.Info(ctx, r.styles.Muted.Render(line)); err != nil {
			return false, err
		}
	}

	ok, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.tr(locale, "tui.confirm_submit", "Submit the document?"),
		Default: true,
	})
	if err != nil {
		return false, err
	}
	if !ok {
		if _, moved := session.Back(); moved {
			return false, nil
		}
		return false, ErrAborted
	}

	if _, err := session.Submit(ctx); err != nil {
		return false, err
	}
	page = session.Page(fields, "")
	if err := r.driver.Info(ctx, r.styles.successLine(page.Notice)); err != nil {
		return false, err
	}
	return true, nil
}

// RunAccount fills an account form. Profiles are switched into edit mode.
// Every answer goes through the form's live checks and is re-asked until the
// field has no error.
func (r *Renderer) RunAccount(ctx context.Context, form *account.Form) (account.Result, error) {
	if r.driver == nil {
		return account.Result{}, ErrNoDriver
	}
	if !form.Editing() {
		form.Edit()
	}
	locale := r.locale
	fields := r.fieldRenderer(form.Store(), locale)
	page := form.Page(fields, "")
	if err := r.driver.Info(ctx, r.styles.Title.Render(page.Title)); err != nil {
		return account.Result{}, err
	}

	assign := func(widget *render.Widget, value any) (string, error) {
		if err := form.Change(widget.Name, value); err != nil {
			return "", err
		}
		return form.Errors()[widget.Name], nil
	}
	for _, widget := range page.Widgets {
		if err := r.promptWidget(ctx, widget, locale, assign); err != nil {
			return account.Result{}, err
		}
	}

	result, err := form.Submit(ctx)
	if err != nil {
		if errors.Is(err, account.ErrInvalid) {
			for _, name := range sortedKeys(form.Errors()) {
				_ = r.driver.Info(ctx, r.styles.errorLine(name+": "+form.Errors()[name]))
			}
		}
		return account.Result{}, err
	}

	notice := result.Notice
	if notice == "" {
		notice = r.tr(locale, "tui.registered", "Registration complete")
	}
	if err := r.driver.Info(ctx, r.styles.successLine(notice)); err != nil {
		return account.Result{}, err
	}
	return result, nil
}

func (r *Renderer) fieldRenderer(store *formstate.Store, locale string) *render.FieldRenderer {
	return render.NewFieldRenderer(
		render.WithProvider(r.provider),
		render.WithEvaluator(r.evaluator),
		render.WithTranslator(r.translator, locale),
		render.WithErrorStore(store),
		render.WithLogger(r.logger),
	)
}

// promptWidget asks for one widget until assign accepts the answer.
func (r *Renderer) promptWidget(ctx context.Context, widget *render.Widget, locale string, assign assignFunc) error {
	if widget == nil {
		return nil
	}
	for {
		value, skip, err := r.ask(ctx, widget, locale)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}
		problem, err := assign(widget, value)
		if err != nil {
			return err
		}
		if problem == "" {
			return nil
		}
		if err := r.driver.Info(ctx, r.styles.errorLine(problem)); err != nil {
			return err
		}
	}
}

// ask runs the prompt matching the widget kind. skip reports widgets that
// only display information.
func (r *Renderer) ask(ctx context.Context, widget *render.Widget, locale string) (any, bool, error) {
	label := firstNonEmpty(widget.Label, widget.Name)
	if widget.Required {
		label += " *"
	}
	if widget.Error != "" {
		if err := r.driver.Info(ctx, r.styles.errorLine(widget.Error)); err != nil {
			return nil, false, err
		}
	}

	switch widget.Kind {
	case render.WidgetInput:
		return r.askInput(ctx, widget, label, locale)
	case render.WidgetTextarea:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: widget.Text, Help: widget.Placeholder})
		return text, false, err
	case render.WidgetCheckbox:
		on, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: widget.Checked})
		return on, false, err
	case render.WidgetSelect, render.WidgetRadio:
		opts := choices(widget.Options)
		if len(opts) == 0 {
			return nil, true, r.driver.Info(ctx, r.styles.warnLine(label))
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      optionLabels(opts),
			DefaultIndex: selectedIndex(opts),
		})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(opts) {
			return nil, false, fmt.Errorf("tui: option %d out of range for %q", idx, widget.Name)
		}
		return opts[idx].Value, false, nil
	case render.WidgetMultiSelect, render.WidgetCheckboxGroup:
		opts := choices(widget.Options)
		if len(opts) == 0 {
			return nil, true, r.driver.Info(ctx, r.styles.warnLine(label))
		}
		picked, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  optionLabels(opts),
			Defaults: selectedIndices(opts),
		})
		if err != nil {
			return nil, false, err
		}
		values := make([]any, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(opts) {
				values = append(values, opts[idx].Value)
			}
		}
		return values, false, nil
	case render.WidgetGroup:
		text, err := r.driver.Input(ctx, InputConfig{Message: label, Default: widget.Text, Help: widget.Caption})
		return text, false, err
	case render.WidgetFile:
		help := ""
		if widget.Upload != nil {
			help = widget.Upload.Hint
		}
		path, err := r.driver.Input(ctx, InputConfig{
			Message:   label,
			Default:   widget.Text,
			Help:      help,
			Validator: r.fileValidator(locale),
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(path) == "" {
			return nil, true, nil
		}
		return strings.TrimSpace(path), false, nil
	case render.WidgetReadOnly:
		return nil, true, r.driver.Info(ctx, label+": "+widget.Text)
	default:
		return nil, true, r.driver.Info(ctx, r.styles.warnLine(firstNonEmpty(widget.Message, label)))
	}
}

func (r *Renderer) askInput(ctx context.Context, widget *render.Widget, label, locale string) (any, bool, error) {
	cfg := InputConfig{Message: label, Default: widget.Text, Help: widget.Placeholder}
	if widget.InputType == "password" {
		text, err := r.driver.Password(ctx, cfg)
		return text, false, err
	}

	switch widget.InputType {
	case "number":
		cfg.Validator = r.numberValidator(widget, locale)
	case "date":
		cfg.Validator = r.layoutValidator(dateLayout, r.tr(locale, "tui.invalid_date", "Use the format YYYY-MM-DD"))
	case "datetime-local":
		cfg.Validator = r.layoutValidator(dateTimeLayout, r.tr(locale, "tui.invalid_datetime", "Use the format YYYY-MM-DDTHH:MM"))
	}

	text, err := r.driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	text = strings.TrimSpace(text)
	if widget.InputType == "number" && text != "" {
		if f, ok := parseNumber(text); ok {
			return f, false, nil
		}
	}
	return text, false, nil
}

func (r *Renderer) numberValidator(widget *render.Widget, locale string) func(string) error {
	return func(text string) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		f, ok := parseNumber(text)
		if !ok {
			return errors.New(r.tr(locale, "tui.invalid_number", "Enter a number"))
		}
		if widget.Min != nil && f < *widget.Min {
			return errors.New(r.tr(locale, "tui.min", "Must be at least {min}", i18n.Params{"min": model.FormatValue(*widget.Min)}))
		}
		if widget.Max != nil && f > *widget.Max {
			return errors.New(r.tr(locale, "tui.max", "Must be at most {max}", i18n.Params{"max": model.FormatValue(*widget.Max)}))
		}
		return nil
	}
}

func (r *Renderer) layoutValidator(layout, message string) func(string) error {
	return func(text string) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		if _, err := time.Parse(layout, text); err != nil {
			return errors.New(message)
		}
		return nil
	}
}

func (r *Renderer) fileValidator(locale string) func(string) error {
	return func(text string) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		if _, err := os.Stat(text); err != nil {
			return errors.New(r.tr(locale, "tui.file_missing", "File not found"))
		}
		return nil
	}
}

func (r *Renderer) tr(locale, key, fallback string, params ...any) string {
	return i18n.Translate(r.translator, locale, key, fallback, params...)
}

func (r *Renderer) finish(values map[string]any) ([]byte, error) {
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		lines := prettyLines(values)
		if len(lines) == 0 {
			return nil, nil
		}
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	default:
		return json.Marshal(values)
	}
}

// choices drops the empty prompt entry select widgets carry.
func choices(opts []render.WidgetOption) []render.WidgetOption {
	out := make([]render.WidgetOption, 0, len(opts))
	for _, opt := range opts {
		if opt.Text == "" && model.FormatValue(opt.Value) == "" {
			continue
		}
		out = append(out, opt)
	}
	return out
}

func optionLabels(opts []render.WidgetOption) []string {
	out := make([]string, 0, len(opts))
	for _, opt := range opts {
		out = append(out, firstNonEmpty(opt.Label, opt.Text))
	}
	return out
}

func selectedIndex(opts []render.WidgetOption) int {
	for idx, opt := range opts {
		if opt.Selected {
			return idx
		}
	}
	return -1
}

func selectedIndices(opts []render.WidgetOption) []int {
	var out []int
	for idx, opt := range opts {
		if opt.Selected {
			out = append(out, idx)
		}
	}
	return out
}

func parseNumber(text string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
	return f, err == nil
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, out)
		}
	case []any:
		for idx, val := range v {
			switch val.(type) {
			case map[string]any, []any:
				flatten(join(prefix, strconv.Itoa(idx)), val, out)
			default:
				out.Add(prefix, model.FormatValue(val))
			}
		}
	default:
		out.Set(prefix, model.FormatValue(v))
	}
}

// prettyLines renders sorted path=value lines. Scalar lists are joined with
// ", ".
func prettyLines(values map[string]any) []string {
	flat := make(map[string]string)
	collectPretty("", values, flat)
	lines := make([]string, 0, len(flat))
	for _, path := range sortedKeys(flat) {
		lines = append(lines, path+"="+flat[path])
	}
	return lines
}

func collectPretty(prefix string, value any, out map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			collectPretty(join(prefix, key), val, out)
		}
	case []any:
		scalars := make([]string, 0, len(v))
		for idx, val := range v {
			switch val.(type) {
			case map[string]any, []any:
				collectPretty(join(prefix, strconv.Itoa(idx)), val, out)
			default:
				scalars = append(scalars, model.FormatValue(val))
			}
		}
		if len(scalars) > 0 {
			out[prefix] = strings.Join(scalars, ", ")
		}
	default:
		if prefix != "" {
			out[prefix] = model.FormatValue(v)
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
