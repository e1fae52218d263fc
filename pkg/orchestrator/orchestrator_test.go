package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

const tinyDoc = `{
	"code": "tiny",
	"title": "Tiny",
	"category": "Test",
	"parsed": {"steps": [
		{"id": "name", "type": "form", "title": "Who", "fields": [
			{"name": "fullName", "type": "text", "label": "Full name", "min": 1}
		]},
		{"id": "married", "type": "radio", "title": "Married?", "options": ["yes", "no"]},
		{"id": "done", "type": "final", "title": "Done"}
	]}
}`

type captureRenderer struct {
	name  string
	pages []render.Page
}

func (r *captureRenderer) Name() string        { return r.name }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, page render.Page, _ render.RenderOptions) ([]byte, error) {
	r.pages = append(r.pages, page)
	return []byte(page.Heading), nil
}

func newCapture(t *testing.T, name string) (*captureRenderer, *render.Registry) {
	t.Helper()
	stub := &captureRenderer{name: name}
	registry := render.NewRegistry()
	require.NoError(t, registry.Register(stub))
	return stub, registry
}

func TestGenerateRendersRequestedStep(t *testing.T) {
	stub, registry := newCapture(t, "capture")
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer("capture"),
		orchestrator.WithLoader(schema.NewLoader(schema.WithFS(fstest.MapFS{"tiny.json": {Data: []byte(tinyDoc)}}))),
	)

	out, err := orch.Generate(context.Background(), orchestrator.Request{
		Source: schema.SourceFromFS("tiny.json"),
		Step:   "married",
		Values: map[string]any{"married": "yes"},
		Action: "/wizard/tiny",
	})
	require.NoError(t, err)
	assert.Equal(t, "Married?", string(out))

	require.Len(t, stub.pages, 1)
	page := stub.pages[0]
	assert.Equal(t, "Tiny", page.Title)
	assert.Equal(t, "/wizard/tiny", page.Action)
	require.NotNil(t, page.Step)
	assert.Equal(t, 1, page.Step.Index)
	assert.Equal(t, 3, page.Step.Total)
	require.Len(t, page.Widgets, 1)
	assert.Equal(t, "yes", page.Widgets[0].Value)
}

func TestGenerateDefaultsToHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(tinyDoc), 0o600))

	orch := orchestrator.New()
	out, err := orch.Generate(context.Background(), orchestrator.Request{Source: schema.SourceFromFile(path)})
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `name="fullName"`)
	assert.Contains(t, html, `name="_step" value="name"`)
}

func TestGenerateJSONRenderer(t *testing.T) {
	orch := orchestrator.New()
	doc := tinySchema()

	out, err := orch.Generate(context.Background(), orchestrator.Request{Document: &doc, Step: "married", Renderer: "json"})
	require.NoError(t, err)

	var page render.Page
	require.NoError(t, json.Unmarshal(out, &page))
	assert.Equal(t, "Married?", page.Heading)
	require.NotNil(t, page.Step)
	assert.Equal(t, "married", page.Step.ID)
	assert.Equal(t, []string{"html", "json"}, orch.Registry().List())
}

func TestGenerateUnknownRendererFails(t *testing.T) {
	_, registry := newCapture(t, "capture")
	orch := orchestrator.New(orchestrator.WithRegistry(registry))
	doc := tinySchema()

	_, err := orch.Generate(context.Background(), orchestrator.Request{Document: &doc, Renderer: "pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, render.ErrUnknownRenderer))
}

func TestGenerateFallsBackToFirstRegisteredRenderer(t *testing.T) {
	stub, registry := newCapture(t, "capture")
	orch := orchestrator.New(orchestrator.WithRegistry(registry), orchestrator.WithDefaultRenderer("missing"))
	doc := tinySchema()

	_, err := orch.Generate(context.Background(), orchestrator.Request{Document: &doc})
	require.NoError(t, err)
	assert.Len(t, stub.pages, 1)
}

func TestGenerateRejectsLintErrors(t *testing.T) {
	broken := `{"title": "Broken", "parsed": {"steps": [{"id": "a", "type": "wizardry"}]}}`
	orch := orchestrator.New(
		orchestrator.WithLoader(schema.NewLoader(schema.WithFS(fstest.MapFS{"broken.json": {Data: []byte(broken)}}))),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{Source: schema.SourceFromFS("broken.json")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, orchestrator.ErrLint))

	lenient := orchestrator.New(
		orchestrator.WithLoader(schema.NewLoader(schema.WithFS(fstest.MapFS{"broken.json": {Data: []byte(broken)}}))),
		orchestrator.WithLint(false),
	)
	_, err = lenient.Generate(context.Background(), orchestrator.Request{Source: schema.SourceFromFS("broken.json")})
	assert.False(t, errors.Is(err, orchestrator.ErrLint))
}

func TestGenerateLogsLintWarnings(t *testing.T) {
	doc := `{"code": "warn", "title": "Warn", "parsed": {"steps": [
		{"id": "sign", "type": "form", "fields": [{"name": "x", "type": "signature", "label": "X"}]}
	]}}`
	stub, registry := newCapture(t, "capture")
	core, logs := observer.New(zap.WarnLevel)
	orch := orchestrator.New(
		orchestrator.WithRegistry(registry),
		orchestrator.WithLoader(schema.NewLoader(schema.WithFS(fstest.MapFS{"warn.json": {Data: []byte(doc)}}))),
		orchestrator.WithLogger(zap.New(core)),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{Source: schema.SourceFromFS("warn.json")})
	require.NoError(t, err)
	assert.Len(t, stub.pages, 1)

	warnings := logs.FilterMessage("document lint warning").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "/parsed/steps/0/fields/0/type", warnings[0].ContextMap()["path"])
}

func TestGenerateUnknownStep(t *testing.T) {
	_, registry := newCapture(t, "capture")
	orch := orchestrator.New(orchestrator.WithRegistry(registry))
	doc := tinySchema()

	_, err := orch.Generate(context.Background(), orchestrator.Request{Document: &doc, Step: "ghost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestGenerateRequiresSource(t *testing.T) {
	orch := orchestrator.New()
	_, err := orch.Generate(context.Background(), orchestrator.Request{})
	require.Error(t, err)
}

func TestGenerateHonoursCanceledContext(t *testing.T) {
	orch := orchestrator.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := tinySchema()

	_, err := orch.Generate(ctx, orchestrator.Request{Document: &doc})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSessionWalksFromPrefill(t *testing.T) {
	orch := orchestrator.New()
	doc := tinySchema()

	session, err := orch.Session(context.Background(), orchestrator.Request{
		Document: &doc,
		Values:   map[string]any{"fullName": "Ada"},
	})
	require.NoError(t, err)
	value, ok := session.Store().Value("fullName")
	require.True(t, ok)
	assert.Equal(t, "Ada", value)

	step, err := session.Next()
	require.NoError(t, err)
	assert.Equal(t, "married", step.ID)
}

func tinySchema() model.DocumentSchema {
	return model.DocumentSchema{
		Code:  "tiny",
		Title: "Tiny",
		Parsed: model.ParsedSchema{Steps: []model.StepDefinition{
			{ID: "name", Type: model.StepTypeForm, Title: "Who", Fields: []model.FieldDefinition{
				{Name: "fullName", Type: model.FieldTypeText, Label: "Full name"},
			}},
			{ID: "married", Type: model.StepTypeRadio, Title: "Married?", Options: model.ScalarOptions("yes", "no")},
			{ID: "done", Type: model.StepTypeFinal, Title: "Done"},
		}},
	}
}
