package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func wizardPath(code string) string {
	return "/wizard/" + code
}

// session returns the visitor's wizard for code, starting one on first use.
// The caller holds v.mu.
func (s *Server) session(v *visitor, code string) (*wizard.Session, bool, error) {
	if session, ok := v.wizards[code]; ok {
		return session, true, nil
	}
	doc, ok := s.catalog.Get(code)
	if !ok {
		return nil, false, nil
	}
	session, err := wizard.New(doc,
		wizard.WithTranslator(s.translator, s.locale),
		wizard.WithLogger(s.logger),
	)
	if err != nil {
		return nil, false, err
	}
	v.wizards[code] = session
	return session, true, nil
}

func (s *Server) handleWizardGet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	session, ok, err := s.session(v, code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.URL.Query().Has("reset") {
		session.Reset()
	}
	s.write(w, r, http.StatusOK, session.Page(s.fieldRenderer(session.Store()), wizardPath(code)))
}

// handleWizardPost applies the posted step and moves the wizard. Posts made
// for a step other than the current one (a stale browser tab) are ignored.
func (s *Server) handleWizardPost(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	session, ok, err := s.session(v, code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	step := session.Current()
	if posted := r.PostForm.Get(render.StepFieldName); posted != step.ID {
		s.logger.Debug("stale wizard post",
			zap.String("document", code),
			zap.String("posted", posted),
			zap.String("current", step.ID),
		)
		seeOther(w, r, wizardPath(code))
		return
	}

	fields := s.fieldRenderer(session.Store())
	if err := render.ApplyForm(session.Widgets(fields), r.PostForm); err != nil {
		s.fail(w, r, err)
		return
	}

	switch r.PostForm.Get(wizard.ActionField) {
	case wizard.ActionBack:
		session.Back()
	case wizard.ActionSubmit:
		if _, err := session.Submit(r.Context()); err != nil {
			if errors.Is(err, wizard.ErrNotFinal) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			s.fail(w, r, err)
			return
		}
	default:
		if _, err := session.Next(); err != nil && !errors.Is(err, wizard.ErrLastStep) {
			s.fail(w, r, err)
			return
		}
	}
	seeOther(w, r, wizardPath(code))
}
