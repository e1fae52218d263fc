// Package server exposes the document wizards and account pages over HTTP.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/options"
	"github.com/goliatone/go-formwizard/pkg/render"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// DefaultSessionTTL applies when Config.SessionTTL is zero.
const DefaultSessionTTL = 30 * time.Minute

// Config wires the server's collaborators.
type Config struct {
	Catalog    *schema.Catalog
	Renderer   render.Renderer
	Provider   options.Provider
	Evaluator  visibility.Evaluator
	Translator i18n.Translator
	Locale     string
	SessionTTL time.Duration
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
	Logger        *zap.Logger
}

// Server is the HTTP handler.
type Server struct {
	router     chi.Router
	catalog    *schema.Catalog
	renderer   render.Renderer
	provider   options.Provider
	evaluator  visibility.Evaluator
	translator i18n.Translator
	locale     string
	sessions   *sessionStore
	index      rendertemplate.TemplateRenderer
	logger     *zap.Logger
}

var _ http.Handler = (*Server)(nil)

// New builds the router. A nil Renderer uses the HTML renderer, a nil
// Translator the bundled catalog.
func New(cfg Config) (*Server, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("server: catalog is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Translator == nil {
		cfg.Translator = i18n.Default()
	}
	if cfg.Locale == "" {
		cfg.Locale = i18n.DefaultLocale
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.Renderer == nil {
		renderer, err := html.New(html.WithTranslator(cfg.Translator), html.WithLogger(cfg.Logger))
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		cfg.Renderer = renderer
	}

	index, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithLogger(cfg.Logger),
		gotemplate.WithTemplateFunc(i18n.TemplateFuncs(cfg.Translator, i18n.TemplateConfig{})),
	)
	if err != nil {
		return nil, fmt.Errorf("server: index template: %w", err)
	}

	s := &Server{
		catalog:    cfg.Catalog,
		renderer:   cfg.Renderer,
		provider:   cfg.Provider,
		evaluator:  cfg.Evaluator,
		translator: cfg.Translator,
		locale:     cfg.Locale,
		sessions:   newSessionStore(cfg.SessionTTL, cfg.SecureCookies),
		index:      index,
		logger:     cfg.Logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(html.AssetsFS()))))

	r.Get("/wizard/{code}", s.handleWizardGet)
	r.Post("/wizard/{code}", s.handleWizardPost)
	r.Get("/register", s.handleRegisterGet)
	r.Post("/register", s.handleRegisterPost)
	r.Get("/profile", s.handleProfileGet)
	r.Post("/profile", s.handleProfilePost)

	s.router = r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"documents": len(s.catalog.List()),
		"sessions":  s.sessions.Len(),
	})
}

type indexGroup struct {
	Category  string          `json:"category"`
	Documents []indexDocument `json:"documents"`
}

type indexDocument struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var groups []indexGroup
	for _, doc := range s.catalog.List() {
		category := doc.Category
		if category == "" {
			category = i18n.Translate(s.translator, s.locale, "index.uncategorized", "Other documents")
		}
		if len(groups) == 0 || groups[len(groups)-1].Category != category {
			groups = append(groups, indexGroup{Category: category})
		}
		last := &groups[len(groups)-1]
		last.Documents = append(last.Documents, indexDocument{Code: doc.Code, Title: doc.Title})
	}

	out, err := s.index.RenderTemplate("templates/index", map[string]any{
		"locale":     s.locale,
		"groups":     groups,
		"stylesheet": html.StylesheetName,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(out))
}

func (s *Server) fieldRenderer(store *formstate.Store) *render.FieldRenderer {
	return render.NewFieldRenderer(
		render.WithProvider(s.provider),
		render.WithEvaluator(s.evaluator),
		render.WithTranslator(s.translator, s.locale),
		render.WithErrorStore(store),
		render.WithLogger(s.logger),
	)
}

// write renders page. A "partial" query parameter renders only the widgets.
func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	opts := render.RenderOptions{Partial: r.URL.Query().Has("partial")}
	out, err := s.renderer.Render(r.Context(), page, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// seeOther answers a handled POST so a reload does not repost it.
func seeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// parseForm accepts urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}
