package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
)

// Name is the registry name of the HTML renderer.
const Name = "html"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	translator       i18n.Translator
	classes          Classes
	widgetTemplates  map[render.WidgetKind]string
	inlineStylesheet bool
	debug            bool
	logger           *zap.Logger
}

// WithTemplatesFS replaces the embedded template bundle. The FS must
// contain templates/page.tmpl, templates/field.tmpl and
// templates/widgets/<kind>.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk laid out like
// the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine. Template options
// and functions are then the caller's responsibility.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTranslator exposes translate/current_locale to templates.
func WithTranslator(t i18n.Translator) Option {
	return func(cfg *config) {
		cfg.translator = t
	}
}

// WithClasses overrides chrome CSS classes; empty entries keep defaults.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = cfg.classes.merge(classes)
	}
}

// WithWidgetTemplate renders widgets of kind with a different template.
func WithWidgetTemplate(kind render.WidgetKind, name string) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if cfg.widgetTemplates == nil {
			cfg.widgetTemplates = make(map[render.WidgetKind]string)
		}
		cfg.widgetTemplates[kind] = name
	}
}

// WithInlineStylesheet toggles embedding the bundled CSS in full pages.
func WithInlineStylesheet(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStylesheet = enabled
	}
}

// WithDebug reloads templates on every render.
func WithDebug(debug bool) Option {
	return func(cfg *config) {
		cfg.debug = debug
	}
}

// WithLogger sets the renderer logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer implements render.Renderer for HTML.
type Renderer struct {
	templates       rendertemplate.TemplateRenderer
	classes         map[string]any
	widgetTemplates map[render.WidgetKind]string
	stylesheet      string
	logger          *zap.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New builds the renderer. Without options it uses the embedded templates,
// the default translation catalog and inlines the bundled stylesheet.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:       TemplatesFS(),
		translator:       i18n.Default(),
		classes:          DefaultClasses(),
		inlineStylesheet: true,
		logger:           zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	engine := cfg.templateRenderer
	if engine == nil {
		built, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithDebug(cfg.debug),
			gotemplate.WithLogger(cfg.logger),
			gotemplate.WithTemplateFunc(i18n.TemplateFuncs(cfg.translator, i18n.TemplateConfig{})),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		engine = built
	}

	r := &Renderer{
		templates:       engine,
		classes:         cfg.classes.context(),
		widgetTemplates: cfg.widgetTemplates,
		logger:          cfg.logger,
	}
	if cfg.inlineStylesheet {
		r.stylesheet = defaultStylesheet()
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a full HTML document, or with opts.Partial only the
// field markup of every widget.
func (r *Renderer) Render(ctx context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}
	if opts.Locale != "" {
		page.Locale = opts.Locale
	}

	if opts.Partial {
		var b strings.Builder
		for _, w := range page.AllWidgets() {
			markup, err := r.RenderWidget(w)
			if err != nil {
				return nil, err
			}
			b.WriteString(markup)
		}
		return []byte(b.String()), nil
	}

	view, err := r.pageView(page)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate("templates/page", map[string]any{
		"page":       view,
		"classes":    r.classes,
		"stylesheet": r.stylesheet,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderWidget renders one widget wrapped in its field chrome.
func (r *Renderer) RenderWidget(w *render.Widget) (string, error) {
	if w == nil {
		return "", nil
	}
	view := widgetView(w)
	data := map[string]any{"w": view, "classes": r.classes}

	control, err := r.templates.RenderTemplate(r.widgetTemplate(w.Kind), data)
	if err != nil {
		r.logger.Warn("widget template failed", zap.String("field", w.Name), zap.String("kind", string(w.Kind)), zap.Error(err))
		return "", fmt.Errorf("html renderer: render widget %q: %w", w.Name, err)
	}
	data["control"] = control

	markup, err := r.templates.RenderTemplate("templates/field", data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render field %q: %w", w.Name, err)
	}
	return markup, nil
}

func (r *Renderer) widgetTemplate(kind render.WidgetKind) string {
	if name, ok := r.widgetTemplates[kind]; ok {
		return name
	}
	switch kind {
	case render.WidgetInput, render.WidgetTextarea, render.WidgetCheckbox, render.WidgetSelect,
		render.WidgetMultiSelect, render.WidgetRadio, render.WidgetCheckboxGroup, render.WidgetReadOnly,
		render.WidgetGroup, render.WidgetFile:
		return "templates/widgets/" + string(kind)
	default:
		return "templates/widgets/unsupported"
	}
}

func (r *Renderer) pageView(page render.Page) (map[string]any, error) {
	renderAll := func(widgets []*render.Widget) ([]any, error) {
		out := make([]any, 0, len(widgets))
		for _, w := range widgets {
			markup, err := r.RenderWidget(w)
			if err != nil {
				return nil, err
			}
			out = append(out, markup)
		}
		return out, nil
	}

	fields, err := renderAll(page.Widgets)
	if err != nil {
		return nil, err
	}
	sections := make([]any, 0, len(page.Sections))
	for _, section := range page.Sections {
		markup, err := renderAll(section.Widgets)
		if err != nil {
			return nil, err
		}
		sections = append(sections, map[string]any{
			"title":  sanitizeText(section.Title),
			"fields": markup,
		})
	}

	hidden := make([]any, 0, len(page.Hidden))
	for _, h := range page.Hidden {
		hidden = append(hidden, map[string]any{"name": h.Name, "value": h.Value})
	}
	actions := make([]any, 0, len(page.Actions))
	for _, a := range page.Actions {
		actions = append(actions, map[string]any{
			"name":    a.Name,
			"value":   a.Value,
			"label":   sanitizeText(a.Label),
			"primary": a.Primary,
		})
	}
	formErrors := make([]any, 0, len(page.FormErrors))
	for _, msg := range page.FormErrors {
		formErrors = append(formErrors, sanitizeText(msg))
	}
	summary := make([]any, 0)
	for _, row := range summaryRows(page.Summary) {
		summary = append(summary, map[string]any{"path": row.Path, "value": row.Value})
	}

	method := strings.ToLower(strings.TrimSpace(page.Method))
	if method == "" {
		method = "post"
	}
	view := map[string]any{
		"title":       page.Title,
		"heading":     page.Heading,
		"description": sanitizeRich(page.Description),
		"locale":      page.Locale,
		"action":      page.Action,
		"method":      method,
		"multipart":   hasFileWidget(page.AllWidgets()),
		"hidden":      hidden,
		"fields":      fields,
		"sections":    sections,
		"actions":     actions,
		"form_errors": formErrors,
		"notice":      sanitizeText(page.Notice),
		"summary":     summary,
	}
	if page.Step != nil {
		view["step"] = map[string]any{
			"id":       page.Step.ID,
			"type":     page.Step.Type,
			"position": page.Step.Index + 1,
			"total":    page.Step.Total,
		}
	}
	return view, nil
}
