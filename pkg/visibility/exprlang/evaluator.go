// Package exprlang evaluates show_if rules with github.com/expr-lang/expr,
// for documents that need more than the built-in evaluator offers
// (arithmetic, `in`, string functions).
package exprlang

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/visibility"
)

// Evaluator compiles each distinct rule once and caches the program.
// Rules see the nested value snapshot as top-level variables, the extras under
// `extras`, and a `selected(list, value)` helper for multi-value fields.
// Undefined variables evaluate to nil.
type Evaluator struct {
	mu       sync.RWMutex
	programs map[string]*vm.Program
}

func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}

	program, err := e.compile(rule)
	if err != nil {
		return false, err
	}

	out, err := expr.Run(program, environment(ctx))
	if err != nil {
		return false, fmt.Errorf("visibility/exprlang: evaluate %q for %s: %w", rule, fieldPath, err)
	}
	switch result := out.(type) {
	case bool:
		return result, nil
	case nil:
		return false, nil
	default:
		return false, fmt.Errorf("visibility/exprlang: rule %q returned %T, want bool", rule, out)
	}
}

func (e *Evaluator) compile(rule string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.programs[rule]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(rule,
		expr.AllowUndefinedVariables(),
		expr.Function("selected", selected),
	)
	if err != nil {
		return nil, fmt.Errorf("visibility/exprlang: compile %q: %w", rule, err)
	}

	e.mu.Lock()
	e.programs[rule] = program
	e.mu.Unlock()
	return program, nil
}

func environment(ctx visibility.Context) map[string]any {
	env := make(map[string]any, len(ctx.Values)+1)
	for key, value := range ctx.Values {
		env[key] = value
	}
	extras := make(map[string]any, len(ctx.Extras))
	for key, value := range ctx.Extras {
		extras[key] = value
	}
	env["extras"] = extras
	return env
}

func selected(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("selected expects 2 arguments, got %d", len(params))
	}
	return formstate.Contains(formstate.AsList(params[0]), params[1]), nil
}
