package config

import (
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/visibility/expr"
	"github.com/goliatone/go-formwizard/pkg/visibility/exprlang"
)

// Evaluator returns the show_if engine named by c.
func (c VisibilityConfig) Evaluator() visibility.Evaluator {
	if c.Engine == EngineExpr {
		return exprlang.New()
	}
	return expr.New()
}
