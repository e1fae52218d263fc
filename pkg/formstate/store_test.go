package formstate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreFlattensPrefill(t *testing.T) {
	store := NewStore(map[string]any{
		"spouse": map[string]any{"name": "Aida", "age": float64(30)},
		"city":   "Almaty",
	})

	if got, ok := store.Value("spouse.name"); !ok || got != "Aida" {
		t.Fatalf("spouse.name = %v (%v)", got, ok)
	}
	parent, ok := store.Value("spouse")
	if !ok {
		t.Fatalf("expected parent lookup to resolve")
	}
	if diff := cmp.Diff(map[string]any{"name": "Aida", "age": float64(30)}, parent); diff != "" {
		t.Fatalf("parent mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"city", "spouse.age", "spouse.name"}, store.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreSetValueReplacesSubtree(t *testing.T) {
	store := NewStore(map[string]any{"a": map[string]any{"b": "x", "c": "y"}})
	if err := store.SetValue("a", "scalar"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "scalar"}, store.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if err := store.SetValue("  ", 1); !errors.Is(err, ErrEmptyPath) {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestStoreNestedBuildsSlices(t *testing.T) {
	store := NewStore(nil)
	_ = store.SetValue("children.1.name", "Dana")
	_ = store.SetValue("children.0.name", "Arman")
	_ = store.SetValue("agree", true)

	want := map[string]any{
		"agree": true,
		"children": []any{
			map[string]any{"name": "Arman"},
			map[string]any{"name": "Dana"},
		},
	}
	if diff := cmp.Diff(want, store.Nested()); diff != "" {
		t.Fatalf("nested mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreValuesAreCopies(t *testing.T) {
	store := NewStore(nil)
	list := []any{"A"}
	_ = store.SetValue("tags", list)
	list[0] = "mutated"

	got, _ := store.Value("tags")
	if diff := cmp.Diff([]any{"A"}, got); diff != "" {
		t.Fatalf("store shares caller slice (-want +got):\n%s", diff)
	}
}

func TestStoreErrors(t *testing.T) {
	store := NewStore(nil)
	store.SetError("email", "invalid")
	if msg, ok := store.Error("email"); !ok || msg != "invalid" {
		t.Fatalf("Error(email) = %q (%v)", msg, ok)
	}
	store.SetError("email", " ")
	if _, ok := store.Error("email"); ok {
		t.Fatalf("blank message should clear the entry")
	}

	store.ReplaceErrors(map[string]string{"phone": "bad", "": "ignored", "x": ""})
	if diff := cmp.Diff(map[string]string{"phone": "bad"}, store.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if !store.HasErrors() {
		t.Fatalf("expected HasErrors")
	}
	store.Reset()
	if store.HasErrors() || len(store.Values()) != 0 {
		t.Fatalf("reset did not clear the store")
	}
}
