package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/formstate"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func newRenderer(t *testing.T, opts ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(opts...)
	require.NoError(t, err)
	return r
}

func renderPage(t *testing.T, r *html.Renderer, page render.Page, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(context.Background(), page, opts)
	require.NoError(t, err)
	return string(out)
}

func TestRendererIdentity(t *testing.T) {
	r := newRenderer(t)
	assert.Equal(t, "html", r.Name())
	assert.Equal(t, "text/html; charset=utf-8", r.ContentType())

	registry := render.NewRegistry()
	require.NoError(t, registry.Register(r))
	got, err := registry.Get("html")
	require.NoError(t, err)
	assert.Same(t, r, got)
}

func TestRenderWizardStep(t *testing.T) {
	session, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"), wizard.WithTranslator(i18n.Default(), "ru"))
	require.NoError(t, err)
	fields := render.NewFieldRenderer(render.WithTranslator(i18n.Default(), "ru"))
	page := session.Page(fields, "/wizard/marriage_contract")

	out := renderPage(t, newRenderer(t), page, render.RenderOptions{})

	assert.Contains(t, out, `<html lang="ru">`)
	assert.Contains(t, out, `<h1>Данные заявителя</h1>`)
	assert.Contains(t, out, `<p>Брачный договор</p>`)
	assert.Contains(t, out, `action="/wizard/marriage_contract"`)
	assert.Contains(t, out, `<input type="hidden" name="_step" value="identity">`)
	assert.Contains(t, out, `name="identity.mode" value="manual"`)
	assert.Contains(t, out, `id="fw-identity-mode-1"`)
	assert.Contains(t, out, `Ввести вручную`)
	assert.Contains(t, out, `<button type="submit" name="action" value="next" class="fw-primary">Далее</button>`)
	assert.Contains(t, out, `1 / 11`)
	assert.Contains(t, out, `<style>`)
	assert.NotContains(t, out, `enctype=`)
}

func TestRenderPartialEmitsOnlyFields(t *testing.T) {
	store := formstate.NewStore(map[string]any{"city": "Almaty"})
	fields := render.NewFieldRenderer()
	widgets := fields.RenderAll([]model.FieldDefinition{
		{Name: "city", Type: model.FieldTypeText, Label: "City"},
		{Name: "notes", Type: model.FieldTypeTextarea, Label: "Notes"},
	}, store)

	out := renderPage(t, newRenderer(t), render.Page{Widgets: widgets}, render.RenderOptions{Partial: true})

	assert.NotContains(t, out, "<html")
	assert.NotContains(t, out, "<form")
	assert.Contains(t, out, `<label for="fw-city">City</label>`)
	assert.Contains(t, out, `<input type="text" id="fw-city" name="city" value="Almaty" class="fw-control">`)
	assert.Contains(t, out, `<textarea id="fw-notes" name="notes" class="fw-control" rows="4" placeholder="Notes"></textarea>`)
}

func TestRenderSanitizesLabelsAndEscapesValues(t *testing.T) {
	store := formstate.NewStore(map[string]any{"name": `"><script>x</script>`})
	widget, ok := render.NewFieldRenderer().Render(model.FieldDefinition{
		Name:  "name",
		Type:  model.FieldTypeText,
		Label: `<script>alert(1)</script><b>Имя</b> & фамилия`,
	}, store)
	require.True(t, ok)

	out, err := newRenderer(t).RenderWidget(widget)
	require.NoError(t, err)

	assert.Contains(t, out, "Имя &amp; фамилия")
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "alert(1)")
}

func TestRenderErrorsAndRequiredMarker(t *testing.T) {
	store := formstate.NewStore(nil)
	store.SetError("email", "Enter a valid email address")
	widget, ok := render.NewFieldRenderer().Render(model.FieldDefinition{
		Name: "email", Type: model.FieldTypeText, Label: "Email", Min: model.Float(1),
	}, store)
	require.True(t, ok)

	out, err := newRenderer(t).RenderWidget(widget)
	require.NoError(t, err)

	assert.Contains(t, out, `fw-invalid`)
	assert.Contains(t, out, `aria-invalid="true" aria-describedby="fw-email-error"`)
	assert.Contains(t, out, `<p id="fw-email-error" class="fw-error" role="alert">Enter a valid email address</p>`)
	assert.Contains(t, out, `<span class="fw-required" aria-hidden="true">*</span>`)
	assert.Contains(t, out, `aria-required="true"`)
}

func TestRenderOptionWidgets(t *testing.T) {
	store := formstate.NewStore(map[string]any{
		"stage":    "divorce",
		"powers":   []any{"bank"},
		"agree":    true,
		"currency": "USD",
	})
	fields := render.NewFieldRenderer()
	widgets := fields.RenderAll([]model.FieldDefinition{
		{Name: "stage", Type: model.FieldTypeRadio, Label: "Stage", Options: model.ScalarOptions("prenup", "divorce")},
		{Name: "powers", Type: model.FieldTypeCheckboxGroup, Label: "Powers", Options: []model.RawOption{
			model.PairOption("sell", "Sell"), model.PairOption("bank", "Bank"),
		}},
		{Name: "agree", Type: model.FieldTypeCheckbox, Label: "Agree"},
		{Name: "currency", Type: model.FieldTypeSelect, Label: "Currency", Options: model.ScalarOptions("KZT", "USD")},
	}, store)

	out := renderPage(t, newRenderer(t), render.Page{Widgets: widgets}, render.RenderOptions{Partial: true})

	assert.Contains(t, out, `<input type="radio" id="fw-stage-1" name="stage" value="divorce" checked>`)
	assert.Contains(t, out, `<input type="radio" id="fw-stage-0" name="stage" value="prenup">`)
	assert.Contains(t, out, `<input type="checkbox" id="fw-powers-1" name="powers" value="bank" checked> Bank`)
	assert.Contains(t, out, `<input type="checkbox" id="fw-agree" name="agree" value="true" checked>`)
	assert.Contains(t, out, `<option value="">Choose...</option>`)
	assert.Contains(t, out, `<option value="USD" selected>USD</option>`)
	assert.Contains(t, out, `<span id="fw-stage-label">Stage</span>`)
}

func TestRenderFileAndUnsupportedWidgets(t *testing.T) {
	store := formstate.NewStore(nil)
	fields := render.NewFieldRenderer(render.WithUploader(render.NoopUploader{Accept: ".pdf"}))
	widgets := fields.RenderAll([]model.FieldDefinition{
		{Name: "scan", Type: model.FieldTypeFile, Label: "Scan"},
		{Name: "sig", Type: "signature", Label: "Signature"},
	}, store)

	out := renderPage(t, newRenderer(t), render.Page{Title: "Upload", Widgets: widgets}, render.RenderOptions{})

	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `<input type="file" id="fw-scan" name="scan" class="fw-control" accept=".pdf">`)
	assert.Contains(t, out, `Upload a document`)
	assert.Contains(t, out, `class="fw-unsupported"`)
	assert.Contains(t, out, `is not supported`)
}

func TestRenderFinalStepSummaryAndNotice(t *testing.T) {
	page := render.Page{
		Title:   "Power of attorney",
		Heading: "Done",
		Locale:  "en",
		Summary: map[string]any{
			"principal": map[string]any{"fullName": "Ivan"},
			"powers":    []any{"sell", "bank"},
			"children":  []any{map[string]any{"name": "Anna"}},
		},
		Notice:      "Document data submitted",
		Description: "• first rule\n• <script>bad()</script>second",
	}

	out := renderPage(t, newRenderer(t), page, render.RenderOptions{})

	assert.Contains(t, out, `<h2>Summary</h2>`)
	assert.Contains(t, out, `<dt>children.0.name</dt><dd>Anna</dd>`)
	assert.Contains(t, out, `<dt>powers</dt><dd>sell, bank</dd>`)
	assert.Contains(t, out, `<dt>principal.fullName</dt><dd>Ivan</dd>`)
	assert.Less(t, strings.Index(out, "children.0.name"), strings.Index(out, "principal.fullName"))
	assert.Contains(t, out, `role="status">Document data submitted</p>`)
	assert.Contains(t, out, `• first rule<br>• second`)
	assert.NotContains(t, out, "bad()")
}

func TestRenderLocaleOverrideAndClasses(t *testing.T) {
	r := newRenderer(t,
		html.WithClasses(html.Classes{Form: "my-form", Primary: "btn-primary"}),
		html.WithInlineStylesheet(false),
	)
	page := render.Page{
		Title:   "Profile",
		Summary: map[string]any{"a": "b"},
		Actions: []render.Action{{Name: "action", Value: "submit", Label: "Save", Primary: true}},
	}

	out := renderPage(t, r, page, render.RenderOptions{Locale: "ru"})

	assert.Contains(t, out, `<html lang="ru">`)
	assert.Contains(t, out, `<h2>Сводка</h2>`)
	assert.Contains(t, out, `class="my-form"`)
	assert.Contains(t, out, `class="fw-page"`)
	assert.Contains(t, out, `class="btn-primary">Save</button>`)
	assert.NotContains(t, out, `<style>`)
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRenderer(t).Render(ctx, render.Page{}, render.RenderOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssetsExposeStylesheet(t *testing.T) {
	f, err := html.AssetsFS().Open(html.StylesheetName)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
