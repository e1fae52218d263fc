package options

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Provider looks up a named dictionary. Lookups are synchronous and total:
// unknown names yield an empty list.
type Provider interface {
	Options(name string) []model.Option
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(name string) []model.Option

// Options implements Provider.
func (fn ProviderFunc) Options(name string) []model.Option {
	if fn == nil {
		return nil
	}
	return fn(name)
}

// Static is a fixed Provider, handy for tests and embedded defaults.
type Static map[string][]model.Option

// Options implements Provider.
func (s Static) Options(name string) []model.Option {
	return s[strings.TrimSpace(name)]
}

// Resolve picks the options a field offers: literal options first, then the
// named dictionary, else nothing.
func Resolve(field model.FieldDefinition, provider Provider) []model.Option {
	return Normalizer{}.Resolve(field, provider)
}

// Resolve is the translating variant of the package level Resolve.
func (n Normalizer) Resolve(field model.FieldDefinition, provider Provider) []model.Option {
	if len(field.Options) > 0 {
		return n.Normalize(field.Options)
	}
	name := strings.TrimSpace(field.Dictionary)
	if name == "" || provider == nil {
		return nil
	}
	found := provider.Options(name)
	if len(found) == 0 {
		return nil
	}
	out := make([]model.Option, len(found))
	copy(out, found)
	return out
}
