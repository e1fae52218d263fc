package expr

import (
	"testing"

	"github.com/goliatone/go-formwizard/pkg/visibility"
)

func values(v map[string]any) visibility.Context {
	return visibility.Context{Values: v}
}

func TestEvaluatorRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		rule string
		ctx  visibility.Context
		want bool
	}{
		{name: "empty rule", rule: "  ", want: true},
		{name: "string equality", rule: `status == "married"`, ctx: values(map[string]any{"status": "married"}), want: true},
		{name: "single quotes", rule: `status == 'married'`, ctx: values(map[string]any{"status": "married"}), want: true},
		{name: "bare word literal", rule: `status == married`, ctx: values(map[string]any{"status": "married"}), want: true},
		{name: "inequality", rule: `status != "married"`, ctx: values(map[string]any{"status": "single"}), want: true},
		{name: "missing field compares as empty", rule: `status == "married"`, want: false},
		{name: "bool from string", rule: `agree == true`, ctx: values(map[string]any{"agree": "true"}), want: true},
		{name: "number equality", rule: `children == 2`, ctx: values(map[string]any{"children": float64(2)}), want: true},
		{name: "number from string", rule: `children > 1`, ctx: values(map[string]any{"children": "3"}), want: true},
		{name: "gte", rule: `children >= 3`, ctx: values(map[string]any{"children": 3}), want: true},
		{name: "lt", rule: `children < 1`, ctx: values(map[string]any{"children": 0}), want: true},
		{name: "lte false", rule: `children <= 1`, ctx: values(map[string]any{"children": 2}), want: false},
		{name: "non numeric is false", rule: `children > 0`, ctx: values(map[string]any{"children": "many"}), want: false},
		{name: "truthy", rule: `has_children`, ctx: values(map[string]any{"has_children": true}), want: true},
		{name: "truthy string false", rule: `has_children`, ctx: values(map[string]any{"has_children": "false"}), want: false},
		{name: "not", rule: `!has_children`, ctx: values(map[string]any{"has_children": false}), want: true},
		{name: "not keyword", rule: `not has_children`, want: true},
		{name: "and", rule: `a == "x" && b == "y"`, ctx: values(map[string]any{"a": "x", "b": "y"}), want: true},
		{name: "and keyword", rule: `a == "x" and b == "z"`, ctx: values(map[string]any{"a": "x", "b": "y"}), want: false},
		{name: "or", rule: `a == "q" || b == "y"`, ctx: values(map[string]any{"a": "x", "b": "y"}), want: true},
		{name: "parentheses", rule: `!(a == "x" or b == "y")`, ctx: values(map[string]any{"a": "x"}), want: false},
		{name: "list membership", rule: `assets == "car"`, ctx: values(map[string]any{"assets": []any{"flat", "car"}}), want: true},
		{name: "list exclusion", rule: `assets != "boat"`, ctx: values(map[string]any{"assets": []any{"car"}}), want: true},
		{name: "empty list is null", rule: `assets == null`, ctx: values(map[string]any{"assets": []any{}}), want: true},
		{name: "empty string is null", rule: `spouse == null`, ctx: values(map[string]any{"spouse": ""}), want: true},
		{name: "dotted traversal", rule: `spouse.name != ""`, ctx: values(map[string]any{"spouse": map[string]any{"name": "Aida"}}), want: true},
		{name: "flat dotted key", rule: `spouse.name == "Aida"`, ctx: values(map[string]any{"spouse.name": "Aida"}), want: true},
		{name: "extras", rule: `extras.role == "notary"`, ctx: visibility.Context{Extras: map[string]any{"role": "notary"}}, want: true},
		{
			name: "lookup",
			rule: `mode == "manual"`,
			ctx: visibility.Context{Lookup: func(path string) (any, bool) {
				return "manual", path == "mode"
			}},
			want: true,
		},
	}

	eval := New()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := eval.Eval("field", tc.rule, tc.ctx)
			if err != nil {
				t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
			}
		})
	}
}

func TestEvaluatorSyntaxErrors(t *testing.T) {
	t.Parallel()

	eval := New()
	for _, rule := range []string{
		`status = "x"`,
		`a & b`,
		`a | b`,
		`status == "open`,
		`(a == 1`,
		`== 1`,
		`a ==`,
		`count > "many"`,
		`a b`,
	} {
		if _, err := eval.Eval("field", rule, visibility.Context{}); err == nil {
			t.Fatalf("expected error for %q", rule)
		}
	}
}
