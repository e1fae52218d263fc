package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/dictionary"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

// app carries what every command needs once the config is loaded.
type app struct {
	cfgFile string
	cfg     config.Config
	logger  *zap.Logger

	// driver replaces the terminal prompts; nil uses survey.
	driver tui.PromptDriver
	// plain disables lipgloss colors.
	plain bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "formwizard",
		Short: "Step-by-step document wizards for the browser and the terminal",
		Long: `formwizard walks people through legal document questionnaires one step at
a time. Documents are JSON or YAML files describing steps, fields, options
and transitions. Serve them over HTTP, prompt them in a terminal, or render a
single step to HTML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (YAML)")
	flags.String("locale", "", "interface locale: ru or en")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.String("visibility-engine", "", "show_if engine: builtin or expr")
	flags.String("schemas-dir", "", "directory with extra documents")
	flags.Bool("schemas-allow-http", false, "allow loading documents over HTTP")
	flags.String("dictionaries-dir", "", "directory with extra dictionaries")
	flags.BoolVar(&a.plain, "plain", false, "disable colored terminal output")

	root.AddCommand(
		serveCmd(a),
		renderCmd(a),
		promptCmd(a),
		accountCmd(a),
		inspectCmd(a),
		lintCmd(a),
		validateCmd(a),
		dictionariesCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.logger == nil {
		logger, err := cfg.Log.Logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		a.logger = logger
	}
	return nil
}

func (a *app) translator() i18n.Translator {
	return i18n.Default()
}

func (a *app) evaluator() visibility.Evaluator {
	return a.cfg.Visibility.Evaluator()
}

func (a *app) styles() tui.Styles {
	if a.plain {
		return tui.PlainStyles()
	}
	return tui.DefaultStyles()
}

// dictionaries returns the bundled dictionaries plus the configured directory.
func (a *app) dictionaries() (*dictionary.Registry, error) {
	dicts, err := dictionary.Default(dictionary.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := dicts.LoadDir(a.cfg.Dictionaries.Dir); err != nil {
		return nil, err
	}
	return dicts, nil
}

// catalog loads the bundled samples and then the configured directory, so
// local documents replace samples with the same code.
func (a *app) catalog(ctx context.Context, dicts *dictionary.Registry) (*schema.Catalog, error) {
	catalog := schema.NewCatalog(schema.WithCatalogLogger(a.logger))
	lint := []schema.LintOption{schema.WithEvaluator(a.evaluator()), schema.WithDictionaries(dicts)}

	if _, err := catalog.LoadFS(ctx, schema.Samples(), ".", lint...); err != nil {
		return nil, fmt.Errorf("load samples: %w", err)
	}
	if dir := a.cfg.Schemas.Dir; dir != "" {
		rejected, err := catalog.LoadDir(ctx, dir, lint...)
		if err != nil {
			return nil, err
		}
		for file, result := range rejected {
			for _, issue := range result.Errors() {
				a.logger.Warn("document rejected",
					zap.String("file", file),
					zap.String("path", issue.Path),
					zap.String("message", issue.Message),
				)
			}
		}
	}
	return catalog, nil
}

func (a *app) loader() *schema.Loader {
	if a.cfg.Schemas.AllowHTTP {
		return schema.NewLoader(schema.WithHTTP())
	}
	return schema.NewLoader()
}

func (a *app) orchestrator(dicts *dictionary.Registry, extra ...orchestrator.Option) *orchestrator.Orchestrator {
	opts := []orchestrator.Option{
		orchestrator.WithLoader(a.loader()),
		orchestrator.WithProvider(dicts),
		orchestrator.WithEvaluator(a.evaluator()),
		orchestrator.WithTranslator(a.translator(), a.cfg.Locale),
		orchestrator.WithLogger(a.logger),
	}
	return orchestrator.New(append(opts, extra...)...)
}

// request resolves arg as a catalog code first and as a document source
// otherwise.
func (a *app) request(ctx context.Context, arg string, dicts *dictionary.Registry) (orchestrator.Request, error) {
	catalog, err := a.catalog(ctx, dicts)
	if err != nil {
		return orchestrator.Request{}, err
	}
	if doc, ok := catalog.Get(arg); ok {
		return orchestrator.Request{Document: &doc}, nil
	}
	src, err := schema.ParseSource(arg)
	if err != nil {
		return orchestrator.Request{}, err
	}
	return orchestrator.Request{Source: src}, nil
}
