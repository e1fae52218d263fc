package server

import (
	"errors"
	"net/http"

	"github.com/goliatone/go-formwizard/pkg/account"
)

const (
	registerPath = "/register"
	profilePath  = "/profile"
)

func (s *Server) accountOptions() []account.Option {
	return []account.Option{
		account.WithTranslator(s.translator, s.locale),
		account.WithLogger(s.logger),
	}
}

// registration returns the visitor's registration form. The caller holds
// v.mu.
func (s *Server) registration(v *visitor) *account.Form {
	if v.register == nil {
		v.register = account.NewRegistration(s.accountOptions()...)
	}
	return v.register
}

// profile returns the visitor's profile form. The caller holds v.mu.
func (s *Server) profile(v *visitor) *account.Form {
	if v.profile == nil {
		v.profile = account.NewProfile(nil, s.accountOptions()...)
	}
	return v.profile
}

func (s *Server) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	form := s.registration(v)
	s.write(w, r, http.StatusOK, form.Page(s.fieldRenderer(form.Store()), registerPath))
}

// handleRegisterPost checks the registration. A valid one seeds the
// visitor's profile and redirects; an invalid one re-renders with errors.
func (s *Server) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := parseForm(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := s.registration(v)
	if err := form.Apply(r.PostForm); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := form.Submit(r.Context())
	switch {
	case errors.Is(err, account.ErrInvalid):
		s.write(w, r, http.StatusUnprocessableEntity, form.Page(s.fieldRenderer(form.Store()), registerPath))
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}

	v.register = nil
	v.profile = account.NewProfile(result.Values, s.accountOptions()...)
	seeOther(w, r, result.Redirect)
}

func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	form := s.profile(v)
	s.write(w, r, http.StatusOK, form.Page(s.fieldRenderer(form.Store()), profilePath))
}

func (s *Server) handleProfilePost(w http.ResponseWriter, r *http.Request) {
	v := s.sessions.acquire(w, r)
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := parseForm(r); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	form := s.profile(v)

	switch r.PostForm.Get(account.ActionField) {
	case account.ActionEdit:
		form.Edit()
	case account.ActionCancel:
		form.Cancel()
	default:
		if !form.Editing() {
			http.Error(w, account.ErrNotEditing.Error(), http.StatusConflict)
			return
		}
		if err := form.Apply(r.PostForm); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := form.Submit(r.Context()); err != nil {
			if errors.Is(err, account.ErrInvalid) {
				s.write(w, r, http.StatusUnprocessableEntity, form.Page(s.fieldRenderer(form.Store()), profilePath))
				return
			}
			s.fail(w, r, err)
			return
		}
	}
	seeOther(w, r, profilePath)
}
