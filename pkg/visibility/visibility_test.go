package visibility

import "testing"

func TestContextResolvePrefersLookup(t *testing.T) {
	ctx := Context{
		Lookup: func(path string) (any, bool) {
			if path == "status" {
				return "married", true
			}
			return nil, false
		},
		Values: map[string]any{
			"status": "single",
			"spouse": map[string]any{"name": "Aida"},
		},
		Extras: map[string]any{"role": "notary"},
	}

	if got, _ := ctx.Resolve("status"); got != "married" {
		t.Fatalf("status = %v, want lookup value", got)
	}
	if got, _ := ctx.Resolve("spouse.name"); got != "Aida" {
		t.Fatalf("spouse.name = %v, want snapshot fallback", got)
	}
	if got, _ := ctx.Resolve("extras.role"); got != "notary" {
		t.Fatalf("extras.role = %v", got)
	}
	if _, ok := ctx.Resolve("missing"); ok {
		t.Fatalf("expected missing path to be unresolved")
	}
}

func TestAlwaysShows(t *testing.T) {
	ok, err := Always.Eval("x", "anything == 1", Context{})
	if err != nil || !ok {
		t.Fatalf("Always.Eval = %v, %v", ok, err)
	}
}
