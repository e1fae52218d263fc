// Package i18n translates message keys used by the validators, the option
// label table and the templates. Catalogs are flat key/message maps per
// locale; messages may reference named parameters as {name}.
package i18n

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrMissingTranslator is reported when no translator is configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is reported when a key has no message.
	ErrMissingTranslation = errors.New("i18n: translation not found")
)

// Translator resolves a message key for a locale. Params is an optional
// single map of named values substituted into {name} placeholders.
type Translator interface {
	Translate(locale, key string, params ...any) (string, error)
}

// MissingTranslationHandler decides what string is shown when translation
// fails.
type MissingTranslationHandler func(locale, key string, params []any, err error) string

// Params is the placeholder map accepted by Translate and Format.
type Params map[string]any

// Catalog is an in-memory Translator keyed by locale then message key.
// Lookups fall back from "ru-KZ" to "ru" and then to the fallback locale.
type Catalog struct {
	mu       sync.RWMutex
	fallback string
	messages map[string]map[string]string
}

var _ Translator = (*Catalog)(nil)

// NewCatalog creates an empty catalog. fallback is the locale consulted
// when the requested one has no message.
func NewCatalog(fallback string) *Catalog {
	return &Catalog{
		fallback: normalizeLocale(fallback),
		messages: make(map[string]map[string]string),
	}
}

// Add merges messages for a locale; later calls override earlier keys.
func (c *Catalog) Add(locale string, messages map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" || len(messages) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.messages[locale]
	if !ok {
		bucket = make(map[string]string, len(messages))
		c.messages[locale] = bucket
	}
	for key, msg := range messages {
		if key = strings.TrimSpace(key); key != "" {
			bucket[key] = msg
		}
	}
}

// Locales returns the loaded locales in sorted order.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.messages))
	for locale := range c.messages {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, params ...any) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("i18n: empty key")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, candidate := range c.candidates(locale) {
		if msg, ok := c.messages[candidate][key]; ok {
			return Format(msg, params...), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func (c *Catalog) candidates(locale string) []string {
	locale = normalizeLocale(locale)
	var out []string
	if locale != "" {
		out = append(out, locale)
		if idx := strings.Index(locale, "-"); idx > 0 {
			out = append(out, locale[:idx])
		}
	}
	if c.fallback != "" {
		out = append(out, c.fallback)
	}
	return out
}

// Format substitutes {name} placeholders from the first Params/map argument.
func Format(message string, params ...any) string {
	if len(params) == 0 || !strings.Contains(message, "{") {
		return message
	}
	var values map[string]any
	switch p := params[0].(type) {
	case Params:
		values = p
	case map[string]any:
		values = p
	case map[string]string:
		values = make(map[string]any, len(p))
		for k, v := range p {
			values[k] = v
		}
	default:
		return message
	}
	pairs := make([]string, 0, len(values)*2)
	for name, value := range values {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

// Translate is the nil-safe helper used by packages holding an optional
// translator: it returns fallback (formatted) whenever translation fails.
func Translate(t Translator, locale, key, fallback string, params ...any) string {
	if t != nil {
		if msg, err := t.Translate(locale, key, params...); err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if strings.TrimSpace(fallback) == "" {
		return key
	}
	return Format(fallback, params...)
}

// MissingTranslationDefault returns the key itself so gaps are visible.
func MissingTranslationDefault(_ string, key string, _ []any, _ error) string {
	return key
}

func normalizeLocale(locale string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
}
