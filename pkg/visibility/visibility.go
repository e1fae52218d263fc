// Package visibility decides whether a field is shown based on its `show_if`
// rule and the current form values. Engines live in sub-packages: expr is the
// built-in, dependency-free evaluator and exprlang delegates to
// github.com/expr-lang/expr.
package visibility

import "strings"

// Evaluator determines whether a field should be visible based on a rule
// string and the current form values.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Lookup resolves a dotted field
// path against the live value store; Values is a nested snapshot of the same
// data for engines that need a whole environment up front. Extras lets
// callers inject arbitrary context such as feature flags (read through the
// `extras.` prefix).
type Context struct {
	Lookup func(path string) (any, bool)
	Values map[string]any
	Extras map[string]any
}

// Resolve reads a dotted path, preferring Lookup over the Values snapshot.
func (c Context) Resolve(path string) (any, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(path), "extras.") {
		return LookupMap(c.Extras, strings.TrimSpace(path[len("extras."):]))
	}
	if c.Lookup != nil {
		if value, ok := c.Lookup(path); ok {
			return value, true
		}
	}
	return LookupMap(c.Values, path)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Always is an Evaluator that shows every field.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) {
	return true, nil
})

// LookupMap walks a nested map by dotted path. Exact dotted keys win over
// traversal so flat stores ("spouse.name") and trees resolve the same way.
func LookupMap(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}
