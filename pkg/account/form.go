package account

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// RegistrationRedirect is where a successful registration sends the user.
const RegistrationRedirect = "/"

// Form actions posted by account pages.
const (
	ActionField  = "action"
	ActionSubmit = "submit"
	ActionEdit   = "edit"
	ActionCancel = "cancel"
)

var (
	// ErrInvalid is returned by Submit while the error map is not empty.
	ErrInvalid = errors.New("account: form has errors")
	// ErrNotEditing is returned when a profile is saved outside edit mode.
	ErrNotEditing = errors.New("account: profile is not in edit mode")
	// ErrUnknownField is returned by Change for names outside the field set.
	ErrUnknownField = errors.New("account: unknown field")
)

// Result describes a successful submission.
type Result struct {
	Values   map[string]any
	Redirect string
	Notice   string
}

// Option configures a Form.
type Option func(*Form)

// WithTranslator sets the translator used for labels and messages.
func WithTranslator(t i18n.Translator, locale string) Option {
	return func(f *Form) {
		f.translator = t
		f.locale = locale
	}
}

// WithLogger sets the logger that receives submissions.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form is a registration or profile page.
type Form struct {
	mode       validation.Mode
	store      *formstate.Store
	checker    *validation.Checker
	translator i18n.Translator
	locale     string
	logger     *zap.Logger

	editing  bool
	saved    map[string]any
	notice   string
	complete bool
}

// NewRegistration returns an empty registration form.
func NewRegistration(opts ...Option) *Form {
	f := newForm(validation.Registration, nil, opts...)
	f.editing = true
	return f
}

// NewProfile returns a profile form pre-filled with prefill. The form starts
// in view mode; call Edit before changing values.
func NewProfile(prefill map[string]any, opts ...Option) *Form {
	return newForm(validation.Profile, prefill, opts...)
}

func newForm(mode validation.Mode, prefill map[string]any, opts ...Option) *Form {
	f := &Form{mode: mode, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.logger = f.logger.With(zap.String("form", mode.String()))
	f.store = formstate.NewStore(prefill)
	f.checker = validation.NewChecker(mode, f.store, validation.WithTranslator(f.translator, f.locale))
	return f
}

// Mode reports whether this is a registration or profile form.
func (f *Form) Mode() validation.Mode { return f.mode }

// Store exposes the values and errors.
func (f *Form) Store() *formstate.Store { return f.store }

// Editing reports whether inputs are editable.
func (f *Form) Editing() bool { return f.editing }

// Complete reports whether a registration went through.
func (f *Form) Complete() bool { return f.complete }

// Errors returns a copy of the error map.
func (f *Form) Errors() map[string]string { return f.checker.Errors() }

// Edit switches a profile into edit mode and remembers the values to restore
// on Cancel.
func (f *Form) Edit() {
	if f.editing {
		return
	}
	f.saved = f.store.Values()
	f.editing = true
	f.notice = ""
}

// Cancel leaves edit mode and restores the values from before Edit.
func (f *Form) Cancel() {
	if f.mode != validation.Profile || !f.editing {
		return
	}
	f.store.Reset()
	for name, value := range f.saved {
		_ = f.store.SetValue(name, value)
	}
	f.saved = nil
	f.editing = false
}

// Change updates one field and its error entry.
func (f *Form) Change(field string, value any) error {
	if _, ok := lookupField(field); !ok {
		return ErrUnknownField
	}
	return f.checker.Change(field, value)
}

// Apply routes posted form values through Change. Fields absent from the
// post are left untouched.
func (f *Form) Apply(form url.Values) error {
	for _, name := range FieldNames() {
		posted, ok := form[name]
		if !ok || len(posted) == 0 {
			continue
		}
		value := posted[0]
		if !isPassword(name) {
			value = strings.TrimSpace(value)
		}
		if err := f.Change(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit re-checks every field. Registration logs the data and reports the
// redirect target; a profile save leaves edit mode and clears the password
// fields.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !f.editing {
		return Result{}, ErrNotEditing
	}
	if !f.checker.Submit() {
		f.logger.Debug("account form rejected", zap.Int("errors", len(f.checker.Errors())))
		return Result{}, ErrInvalid
	}

	values := redacted(f.store.Values())
	if f.mode == validation.Registration {
		f.complete = true
		f.logger.Info("registration submitted", zap.Any("values", values))
		return Result{Values: values, Redirect: RegistrationRedirect}, nil
	}

	f.store.Delete(FieldPassword)
	f.store.Delete(FieldConfirmPassword)
	f.editing = false
	f.saved = nil
	f.notice = i18n.Translate(f.translator, f.locale, "account.profile.saved", "Profile saved")
	f.logger.Info("profile saved", zap.Any("values", values))
	return Result{Values: values, Notice: f.notice}, nil
}

func redacted(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for name, value := range values {
		if isPassword(name) {
			continue
		}
		out[name] = value
	}
	return out
}
