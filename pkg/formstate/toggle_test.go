package formstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToggleSequence(t *testing.T) {
	var value any = []any{}

	value = Toggle(value, "A", true)
	if diff := cmp.Diff([]any{"A"}, value); diff != "" {
		t.Fatalf("toggle A on (-want +got):\n%s", diff)
	}

	value = Toggle(value, "A", false)
	if diff := cmp.Diff([]any{}, value); diff != "" {
		t.Fatalf("toggle A off (-want +got):\n%s", diff)
	}

	value = Toggle(value, "A", true)
	value = Toggle(value, "B", true)
	if diff := cmp.Diff([]any{"A", "B"}, value); diff != "" {
		t.Fatalf("toggle A then B (-want +got):\n%s", diff)
	}
}

func TestToggleTreatsNonArraysAsEmpty(t *testing.T) {
	for _, current := range []any{nil, "A", 42, map[string]any{"A": true}} {
		got := Toggle(current, "B", true)
		if diff := cmp.Diff([]any{"B"}, got); diff != "" {
			t.Fatalf("Toggle(%v) (-want +got):\n%s", current, diff)
		}
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	current := []any{"A", "B"}
	_ = Toggle(current, "A", false)
	_ = Toggle(current, "C", true)
	if diff := cmp.Diff([]any{"A", "B"}, current); diff != "" {
		t.Fatalf("input mutated (-want +got):\n%s", diff)
	}
}

func TestToggleNoDuplicatesAndNumericEquality(t *testing.T) {
	got := Toggle([]any{float64(1)}, 1, true)
	if diff := cmp.Diff([]any{float64(1)}, got); diff != "" {
		t.Fatalf("duplicate appended (-want +got):\n%s", diff)
	}
	got = Toggle([]any{float64(1), "1"}, 1, false)
	if diff := cmp.Diff([]any{"1"}, got); diff != "" {
		t.Fatalf("numeric removal (-want +got):\n%s", diff)
	}
}

func TestToggleAcceptsStringSlices(t *testing.T) {
	got := Toggle([]string{"x", "y"}, "y", false)
	if diff := cmp.Diff([]any{"x"}, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}
