package template_test

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	assertGolden(t, "hello.golden", result, written)
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	assertGolden(t, "use-global.golden", result, written)
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil && !errors.Is(err, gotemplate.ErrFilterExists) {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	assertGolden(t, "use-filter.golden", result, written)

	if err := engine.RegisterFilter("trim", func(input any, _ any) (any, error) { return input, nil }); !errors.Is(err, gotemplate.ErrFilterExists) {
		t.Fatalf("expected ErrFilterExists for built-in filter, got %v", err)
	}
}

func TestGoTemplateEngine_DefaultFiltersAndEscaping(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("widget", map[string]any{
			"name":  "children.0.name",
			"label": "Name & surname",
			"value": true,
			"count": 3,
		}, w)
	})

	assertGolden(t, "widget.golden", result, written)
}

func TestGoTemplateEngine_RenderStringWithStructData(t *testing.T) {
	engine := newEngine(t)
	data := struct {
		Title string `json:"title"`
	}{Title: "Profile"}

	got, err := engine.Render("<h1>{{ title }}</h1>", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "<h1>Profile</h1>" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := engine.RenderString("{{ x }}", []string{"not", "an", "object"}); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}

func TestGoTemplateEngine_TemplateFuncs(t *testing.T) {
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(
		gotemplate.WithFS(templatesFS),
		gotemplate.WithTemplateFunc(map[string]any{
			"greet": func(name string) string { return "hi " + name },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString(`{{ greet("Ada") }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hi Ada" {
		t.Fatalf("unexpected output %q", got)
	}

	if _, err := gotemplate.New(gotemplate.WithFS(templatesFS), gotemplate.WithTemplateFunc(map[string]any{"bad": 42})); err == nil {
		t.Fatalf("expected error for non-function template func")
	}
}

func TestNewRequiresTemplateSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without base dir or fs")
	}
}

func TestDOMID(t *testing.T) {
	cases := map[string]string{
		gotemplate.DOMID("email"):                  "fw-email",
		gotemplate.DOMID("children.0.name"):        "fw-children-0-name",
		gotemplate.DOMID("powers", "bank"):         "fw-powers-bank",
		gotemplate.DOMID("regime.type", "", "err"): "fw-regime-type-err",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("DOMID: want %q, got %q", want, got)
		}
	}
}

func assertGolden(t *testing.T, name, result, written string) {
	t.Helper()
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", name))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
