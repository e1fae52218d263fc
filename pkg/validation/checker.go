package validation

import (
	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// Account field names checked by the Checker.
const (
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Mode selects the rule set.
type Mode int

const (
	// Registration requires a password and applies the phone prefix check.
	Registration Mode = iota
	// Profile treats an empty password as "unchanged" and uses PhoneLoose.
	Profile
)

func (m Mode) String() string {
	if m == Profile {
		return "profile"
	}
	return "registration"
}

// Checker keeps the error map of an account form in sync with its values.
// Values and errors live in the same formstate.Store.
type Checker struct {
	mode       Mode
	store      *formstate.Store
	translator i18n.Translator
	locale     string
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithTranslator makes the checker store translated messages.
func WithTranslator(t i18n.Translator, locale string) CheckerOption {
	return func(c *Checker) {
		c.translator = t
		c.locale = locale
	}
}

// NewChecker binds a checker to store. A nil store gets a fresh one.
func NewChecker(mode Mode, store *formstate.Store, opts ...CheckerOption) *Checker {
	if store == nil {
		store = formstate.NewStore(nil)
	}
	c := &Checker{mode: mode, store: store}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Mode returns the active rule set.
func (c *Checker) Mode() Mode { return c.mode }

// Store returns the backing store.
func (c *Checker) Store() *formstate.Store { return c.store }

// Change writes value and recomputes the entry of that field only. Changing
// the password re-checks a non-empty confirmation; changing any field
// without a validator clears its stale error.
func (c *Checker) Change(field string, value any) error {
	if err := c.store.SetValue(field, value); err != nil {
		return err
	}
	text := model.FormatValue(value)

	switch field {
	case FieldEmail:
		c.set(field, Email(text))
	case FieldPhone:
		c.set(field, c.phone(text))
	case FieldPassword:
		c.set(field, c.password(text))
		if confirm := c.text(FieldConfirmPassword); confirm != "" {
			c.set(FieldConfirmPassword, ConfirmPassword(text, confirm))
		}
	case FieldConfirmPassword:
		c.set(field, ConfirmPassword(c.text(FieldPassword), text))
	default:
		c.store.ClearError(field)
	}
	return nil
}

// Submit re-checks every field, replaces the error map and reports whether
// the form is valid.
func (c *Checker) Submit() bool {
	errs := make(map[string]string)
	add := func(field, key string) {
		if key != "" {
			errs[field] = Message(c.translator, c.locale, key)
		}
	}

	add(FieldEmail, Email(c.text(FieldEmail)))
	add(FieldPhone, c.phone(c.text(FieldPhone)))

	password := c.text(FieldPassword)
	if c.mode == Registration || password != "" {
		add(FieldPassword, Password(password))
		add(FieldConfirmPassword, ConfirmPassword(password, c.text(FieldConfirmPassword)))
	}

	c.store.ReplaceErrors(errs)
	return len(errs) == 0
}

// Errors returns a copy of the current error map.
func (c *Checker) Errors() map[string]string {
	return c.store.Errors()
}

// Valid reports whether the error map is empty.
func (c *Checker) Valid() bool {
	return !c.store.HasErrors()
}

func (c *Checker) phone(value string) string {
	if c.mode == Profile {
		return PhoneLoose(value)
	}
	return Phone(value)
}

func (c *Checker) password(value string) string {
	if c.mode == Profile && value == "" {
		return ""
	}
	return Password(value)
}

func (c *Checker) text(field string) string {
	value, ok := c.store.Value(field)
	if !ok {
		return ""
	}
	return model.FormatValue(value)
}

func (c *Checker) set(field, key string) {
	if key == "" {
		c.store.ClearError(field)
		return
	}
	c.store.SetError(field, Message(c.translator, c.locale, key))
}
