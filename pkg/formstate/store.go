package formstate

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrEmptyPath is returned when a value is written without a field name.
var ErrEmptyPath = errors.New("formstate: field path is required")

// ValueStore reads and writes field values by dotted field name.
type ValueStore interface {
	Value(name string) (any, bool)
	SetValue(name string, value any) error
}

// ErrorStore exposes the current validation message per field. A missing key
// means the field has no error.
type ErrorStore interface {
	Error(name string) (string, bool)
}

// Store is a concurrency-safe in-memory ValueStore and ErrorStore. Values are
// kept flat, keyed by their full dotted path; Nested rebuilds the tree.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	errors map[string]string
}

var (
	_ ValueStore = (*Store)(nil)
	_ ErrorStore = (*Store)(nil)
)

// NewStore seeds a store with prefilled values. Nested maps are flattened
// into dotted paths so "author": {"email": ...} is addressable as
// "author.email".
func NewStore(prefill map[string]any) *Store {
	store := &Store{
		values: make(map[string]any),
		errors: make(map[string]string),
	}
	flatten("", prefill, store.values)
	return store
}

// Value returns the value stored under name. Containers seeded under a
// parent path resolve too, so "author" returns the nested map.
func (s *Store) Value(name string) (any, bool) {
	path := cleanPath(name)
	if s == nil || path == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if value, ok := s.values[path]; ok {
		return deepCopy(value), true
	}
	subtree := subtreeOf(s.values, path)
	if len(subtree) == 0 {
		return nil, false
	}
	return expand(subtree), true
}

// SetValue replaces the value stored under name.
func (s *Store) SetValue(name string, value any) error {
	path := cleanPath(name)
	if path == "" {
		return ErrEmptyPath
	}
	if s == nil {
		return errors.New("formstate: store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range subtreeOf(s.values, path) {
		delete(s.values, path+"."+key)
	}
	if nested, ok := value.(map[string]any); ok {
		flatten(path, nested, s.values)
		return nil
	}
	s.values[path] = deepCopy(value)
	return nil
}

// Delete removes the value (and any nested values) stored under name.
func (s *Store) Delete(name string) {
	path := cleanPath(name)
	if s == nil || path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, path)
	for key := range subtreeOf(s.values, path) {
		delete(s.values, path+"."+key)
	}
}

// Values returns a flat copy of every stored value.
func (s *Store) Values() map[string]any {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = deepCopy(value)
	}
	return out
}

// Nested returns the values as a tree, turning numeric path segments into
// slices ("items.0.name" becomes items: [{name: ...}]).
func (s *Store) Nested() map[string]any {
	return expand(s.Values())
}

// Paths returns the stored paths in sorted order.
func (s *Store) Paths() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for key := range s.values {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Error returns the validation message for name.
func (s *Store) Error(name string) (string, bool) {
	path := cleanPath(name)
	if s == nil || path == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.errors[path]
	return msg, ok
}

// SetError records a message for name. Blank messages clear the entry.
func (s *Store) SetError(name, message string) {
	path := cleanPath(name)
	if s == nil || path == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(message) == "" {
		delete(s.errors, path)
		return
	}
	s.errors[path] = message
}

// ClearError removes the message for name.
func (s *Store) ClearError(name string) {
	s.SetError(name, "")
}

// ReplaceErrors swaps the whole error map, used by full re-checks on submit.
func (s *Store) ReplaceErrors(errs map[string]string) {
	if s == nil {
		return
	}
	next := make(map[string]string, len(errs))
	for key, msg := range errs {
		if path := cleanPath(key); path != "" && strings.TrimSpace(msg) != "" {
			next[path] = msg
		}
	}
	s.mu.Lock()
	s.errors = next
	s.mu.Unlock()
}

// Errors returns a copy of the error map.
func (s *Store) Errors() map[string]string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.errors))
	for key, msg := range s.errors {
		out[key] = msg
	}
	return out
}

// HasErrors reports whether any field currently has a message.
func (s *Store) HasErrors() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors) > 0
}

// Reset drops every value and error.
func (s *Store) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.values = make(map[string]any)
	s.errors = make(map[string]string)
	s.mu.Unlock()
}

func cleanPath(name string) string {
	return strings.Trim(strings.TrimSpace(name), ".")
}
