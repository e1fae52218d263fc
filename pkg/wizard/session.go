// Package wizard walks a DocumentSchema step by step: it turns each step into
// field definitions, resolves `next` transitions, keeps a back history and
// collects the answers on submit.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrNoSteps is returned for documents without steps.
	ErrNoSteps = errors.New("wizard: document has no steps")
	// ErrLastStep is returned by Next on the last step.
	ErrLastStep = errors.New("wizard: already on the last step")
	// ErrUnknownStep is returned when a transition targets a missing step.
	ErrUnknownStep = errors.New("wizard: unknown step")
	// ErrNotFinal is returned by Submit outside the final step.
	ErrNotFinal = errors.New("wizard: submit is only allowed on the final step")
)

// DefaultNextKey is the fallback entry of a value-keyed next map.
const DefaultNextKey = "default"

// Session is the navigation state of one user through one document. It is
// not safe for concurrent use; callers serialize access.
type Session struct {
	doc        model.DocumentSchema
	store      *formstate.Store
	current    int
	history    []int
	submitted  bool
	translator i18n.Translator
	locale     string
	logger     *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithStore uses store for answers, e.g. to resume a session.
func WithStore(store *formstate.Store) Option {
	return func(s *Session) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets the logger used for navigation and submit records.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTranslator localizes synthesized labels (input mode, item captions).
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(s *Session) {
		s.translator = t
		s.locale = locale
	}
}

// New starts a session on the first step of doc.
func New(doc model.DocumentSchema, opts ...Option) (*Session, error) {
	if len(doc.Steps()) == 0 {
		return nil, ErrNoSteps
	}
	s := &Session{
		doc:    doc,
		store:  formstate.NewStore(nil),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With(zap.String("document", doc.Code))
	return s, nil
}

// Document returns the schema the session walks.
func (s *Session) Document() model.DocumentSchema { return s.doc }

// Store returns the answer store.
func (s *Session) Store() *formstate.Store { return s.store }

// Locale returns the locale used for synthesized labels.
func (s *Session) Locale() string { return s.locale }

// Current returns the active step.
func (s *Session) Current() model.StepDefinition {
	return s.doc.Steps()[s.current]
}

// Index returns the position of the active step.
func (s *Session) Index() int { return s.current }

// Total returns the number of steps in the document.
func (s *Session) Total() int { return len(s.doc.Steps()) }

// CanGoBack reports whether Back has a step to return to.
func (s *Session) CanGoBack() bool { return len(s.history) > 0 }

// IsFinal reports whether the active step is a final step.
func (s *Session) IsFinal() bool {
	return s.Current().Type == model.StepTypeFinal
}

// Submitted reports whether Submit succeeded.
func (s *Session) Submitted() bool { return s.submitted }

// Next moves to the step selected by the current step's next rule and
// returns it.
func (s *Session) Next() (model.StepDefinition, error) {
	target, err := s.resolveNext(s.Current())
	if err != nil {
		return model.StepDefinition{}, err
	}
	s.logger.Debug("wizard next",
		zap.String("from", s.Current().ID),
		zap.String("to", s.doc.Steps()[target].ID),
	)
	s.history = append(s.history, s.current)
	s.current = target
	return s.Current(), nil
}

// Back returns to the previously visited step. It reports false on the first
// step.
func (s *Session) Back() (model.StepDefinition, bool) {
	if len(s.history) == 0 {
		return s.Current(), false
	}
	last := len(s.history) - 1
	s.current = s.history[last]
	s.history = s.history[:last]
	return s.Current(), true
}

// GoTo jumps to a step by id, recording the jump in the history.
func (s *Session) GoTo(id string) (model.StepDefinition, error) {
	idx := s.doc.StepIndex(id)
	if idx < 0 {
		return model.StepDefinition{}, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	if idx != s.current {
		s.history = append(s.history, s.current)
		s.current = idx
	}
	return s.Current(), nil
}

// Reset clears answers and history and returns to the first step.
func (s *Session) Reset() {
	s.store.Reset()
	s.history = nil
	s.current = 0
	s.submitted = false
}

// Submit collects the answers on the final step. Nothing is sent anywhere:
// the values are logged and returned.
func (s *Session) Submit(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.IsFinal() {
		return nil, ErrNotFinal
	}
	values := s.store.Nested()
	s.submitted = true
	s.logger.Info("wizard submitted",
		zap.String("title", s.doc.Title),
		zap.String("output", s.Current().Output),
		zap.Any("values", values),
	)
	return values, nil
}

func (s *Session) resolveNext(step model.StepDefinition) (int, error) {
	next := step.Next
	switch {
	case next.Step != "":
		return s.indexOf(next.Step)
	case len(next.ByValue) > 0:
		if target, ok := next.ByValue[s.boundText(step)]; ok && s.boundText(step) != "" {
			return s.indexOf(target)
		}
		if target, ok := next.ByValue[DefaultNextKey]; ok {
			return s.indexOf(target)
		}
	case len(next.Candidates) > 0:
		for _, candidate := range next.Candidates {
			if idx := s.doc.StepIndex(candidate); idx >= 0 {
				return idx, nil
			}
		}
		return 0, fmt.Errorf("%w: none of %v", ErrUnknownStep, next.Candidates)
	}

	if s.current+1 >= len(s.doc.Steps()) {
		return 0, ErrLastStep
	}
	return s.current + 1, nil
}

func (s *Session) indexOf(id string) (int, error) {
	idx := s.doc.StepIndex(id)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStep, id)
	}
	return idx, nil
}

// BoundPath returns the value path a step's own answer is stored under.
func BoundPath(step model.StepDefinition) string {
	if step.Type == model.StepTypeInputMode && strings.TrimSpace(step.InputModeField) != "" {
		return strings.TrimSpace(step.InputModeField)
	}
	return step.ID
}

func (s *Session) boundText(step model.StepDefinition) string {
	value, ok := s.store.Value(BoundPath(step))
	if !ok {
		return ""
	}
	return model.FormatValue(value)
}

// Placeholder is a document placeholder with its current answer.
type Placeholder struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Value  any    `json:"value,omitempty"`
	Filled bool   `json:"filled"`
}

// Placeholders resolves the document placeholders against the answers.
// Placeholders may be written as bare paths or wrapped in {{ }} / { }.
func (s *Session) Placeholders() []Placeholder {
	names := s.doc.Parsed.Placeholders
	out := make([]Placeholder, 0, len(names))
	for _, name := range names {
		path := strings.TrimSpace(name)
		path = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(path, "{{"), "}}"))
		path = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(path, "{"), "}"))
		value, ok := s.store.Value(path)
		filled := ok && !isEmpty(value)
		out = append(out, Placeholder{Name: name, Path: path, Value: value, Filled: filled})
	}
	return out
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}
