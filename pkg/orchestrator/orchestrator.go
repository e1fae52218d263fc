package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const defaultRendererName = html.Name

// ErrLint wraps lint failures of a loaded document.
var ErrLint = errors.New("orchestrator: document failed lint")

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a schema loader, e.g. one with HTTP enabled.
func WithLoader(loader *schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithProvider resolves dictionaries for select fields and lint checks.
func WithProvider(provider options.Provider) Option {
	return func(o *Orchestrator) {
		o.provider = provider
	}
}

// WithEvaluator evaluates show_if rules.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(o *Orchestrator) {
		o.evaluator = evaluator
	}
}

// WithTranslator localises wizard strings.
func WithTranslator(translator i18n.Translator, locale string) Option {
	return func(o *Orchestrator) {
		o.translator = translator
		o.locale = locale
	}
}

// WithLogger sets the logger handed to sessions and renderers.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSchemaTransformer registers a Transformer that mutates documents after
// decoding and before a session is built.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithLint toggles linting of loaded documents. Lint errors fail Generate;
// warnings are logged. Enabled by default.
func WithLint(enabled bool) Option {
	return func(o *Orchestrator) {
		o.lint = enabled
	}
}

// Orchestrator coordinates the pipeline from a document source to one
// rendered wizard step. Defaults: HTML and JSON renderers (HTML first), local
// files only, built-in visibility rules, bundled translations.
type Orchestrator struct {
	loader          *schema.Loader
	registry        *render.Registry
	defaultRenderer string
	provider        options.Provider
	evaluator       visibility.Evaluator
	translator      i18n.Translator
	locale          string
	transformer     Transformer
	lint            bool
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		lint:            true,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one step to render.
type Request struct {
	// Source identifies where the document lives. Optional when Document is
	// supplied.
	Source schema.Source

	// Document bypasses the loader and lint for already decoded documents.
	Document *model.DocumentSchema

	// Step selects the step to show. Empty means the first step.
	Step string

	// Values prefill the answers, keyed by dotted path.
	Values map[string]any

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// Action is the URL the rendered form posts to.
	Action string

	RenderOptions render.RenderOptions
}

// Session resolves the request's document and returns a wizard session
// positioned on req.Step with req.Values applied.
func (o *Orchestrator) Session(ctx context.Context, req Request) (*wizard.Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := o.applyTransformer(ctx, &doc); err != nil {
		return nil, err
	}

	session, err := wizard.New(doc,
		wizard.WithStore(formstate.NewStore(req.Values)),
		wizard.WithTranslator(o.translator, o.locale),
		wizard.WithLogger(o.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: start wizard: %w", err)
	}
	if step := strings.TrimSpace(req.Step); step != "" {
		if _, err := session.GoTo(step); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
	}
	return session, nil
}

// Generate renders the requested step and returns the renderer's bytes
// (HTML for the default renderer).
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	session, err := o.Session(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	fields := render.NewFieldRenderer(
		render.WithProvider(o.provider),
		render.WithEvaluator(o.evaluator),
		render.WithTranslator(o.translator, o.locale),
		render.WithErrorStore(session.Store()),
		render.WithLogger(o.logger),
	)
	page := session.Page(fields, req.Action)

	output, err := renderer.Render(ctx, page, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry so callers can list renderers.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (model.DocumentSchema, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return model.DocumentSchema{}, errors.New("orchestrator: source or document is required")
	}
	raw, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return model.DocumentSchema{}, fmt.Errorf("orchestrator: load document: %w", err)
	}

	if o.lint {
		result := schema.Lint(raw, schema.WithEvaluator(o.evaluator), schema.WithDictionaries(o.provider))
		for _, issue := range result.Issues {
			if issue.Severity == schema.SeverityWarning {
				o.logger.Warn("document lint warning",
					zap.String("source", raw.Location()),
					zap.String("path", issue.Path),
					zap.String("message", issue.Message),
				)
			}
		}
		if errs := result.Errors(); len(errs) > 0 {
			return model.DocumentSchema{}, fmt.Errorf("%w: %s: %s", ErrLint, errs[0].Path, errs[0].Message)
		}
	}

	doc, err := raw.Decode()
	if err != nil {
		return model.DocumentSchema{}, fmt.Errorf("orchestrator: decode document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyTransformer(ctx context.Context, doc *model.DocumentSchema) error {
	if o.transformer == nil {
		return nil
	}
	*doc = cloneDocument(*doc)
	if err := o.transformer.Transform(ctx, doc); err != nil {
		return fmt.Errorf("orchestrator: transform document: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.loader == nil {
		o.loader = schema.NewLoader()
	}
	if o.translator == nil {
		o.translator = i18n.Default()
	}
	if o.locale == "" {
		o.locale = i18n.DefaultLocale
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithTranslator(o.translator), html.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		for _, r := range []render.Renderer{renderer, render.JSONRenderer{Indent: true}} {
			if err := o.registry.Register(r); err != nil {
				o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
				return
			}
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
