package options_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
)

func TestNormalizeScalarsAndPairs(t *testing.T) {
	raw := []model.RawOption{
		model.ScalarOption("YES"),
		model.ScalarOption("no"),
		model.ScalarOption("until_date"),
		model.ScalarOption(3),
		model.ScalarOption(true),
		model.PairOption("a", "Alpha"),
		model.ScalarOption("forever"),
	}

	got := options.Normalize(raw)
	want := []model.Option{
		{Value: "YES", Label: "Yes"},
		{Value: "no", Label: "No"},
		{Value: "until_date", Label: "Until the specified date"},
		{Value: float64(3), Label: "3"},
		{Value: true, Label: "true"},
		{Value: "a", Label: "Alpha"},
		{Value: "forever", Label: "Forever"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := options.Normalize(model.ScalarOptions("yes", "poa", "custom"))
	twice := options.Normalize(options.Pairs(once))
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second normalization changed options (-once +twice):\n%s", diff)
	}
}

func TestNormalizerTranslatesTableLabels(t *testing.T) {
	n := options.Normalizer{Translator: i18n.Default(), Locale: "ru"}
	got := n.Normalize(model.ScalarOptions("yes", "No", "prenup", "other"))
	want := []model.Option{
		{Value: "yes", Label: "Да"},
		{Value: "No", Label: "Нет"},
		{Value: "prenup", Label: "Ещё не в браке (пренуп)"},
		{Value: "other", Label: "other"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("translated labels mismatch (-want +got):\n%s", diff)
	}
}

func TestResolvePrecedence(t *testing.T) {
	provider := options.Static{
		"cities": {{Value: "almaty", Label: "Almaty"}},
	}

	literal := model.FieldDefinition{Name: "c", Type: model.FieldTypeSelect, Dictionary: "cities", Options: model.ScalarOptions("x")}
	if diff := cmp.Diff([]model.Option{{Value: "x", Label: "x"}}, options.Resolve(literal, provider)); diff != "" {
		t.Fatalf("literal options should win (-want +got):\n%s", diff)
	}

	dict := model.FieldDefinition{Name: "c", Type: model.FieldTypeSelect, Dictionary: "cities"}
	if diff := cmp.Diff(provider["cities"], options.Resolve(dict, provider)); diff != "" {
		t.Fatalf("dictionary options mismatch (-want +got):\n%s", diff)
	}

	unknown := model.FieldDefinition{Name: "c", Type: model.FieldTypeSelect, Dictionary: "missing"}
	if got := options.Resolve(unknown, provider); len(got) != 0 {
		t.Fatalf("expected empty options, got %v", got)
	}
	if got := options.Resolve(dict, nil); len(got) != 0 {
		t.Fatalf("expected empty options without provider, got %v", got)
	}
}

func TestNormalizerEnglishCatalogLabels(t *testing.T) {
	n := options.Normalizer{Translator: i18n.Default(), Locale: "en"}
	got := n.Normalize(model.ScalarOptions("forever", "until_divorce"))
	want := []model.Option{
		{Value: "forever", Label: "Forever"},
		{Value: "until_divorce", Label: "Until divorce"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("english labels mismatch (-want +got):\n%s", diff)
	}
}
