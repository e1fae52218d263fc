package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-formwizard/internal/server"
	"github.com/goliatone/go-formwizard/pkg/dictionary"
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/visibility/expr"
)

func ptr(f float64) *float64 { return &f }

func familyDoc() model.DocumentSchema {
	return model.DocumentSchema{
		Code:     "family",
		Title:    "Family",
		Category: "Family law",
		Parsed: model.ParsedSchema{Steps: []model.StepDefinition{
			{ID: "married", Type: model.StepTypeRadio, Title: "Married?", Options: model.ScalarOptions("yes", "no")},
			{ID: "kids", Type: model.StepTypeNumber, Title: "Children", Min: ptr(0), Max: ptr(3)},
			{
				ID:               "children",
				Type:             model.StepTypeArray,
				Title:            "Children details",
				DynamicCountFrom: "kids",
				Min:              ptr(0),
				Max:              ptr(3),
				Fields:           []model.FieldDefinition{{Name: "name", Type: model.FieldTypeText, Label: "Name"}},
			},
			{ID: "done", Type: model.StepTypeFinal, Title: "Done"},
		}},
	}
}

type harness struct {
	t      *testing.T
	srv    *httptest.Server
	client *http.Client
	logs   *observer.ObservedLogs
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	catalog := schema.NewCatalog()
	require.NoError(t, catalog.Add(familyDoc()))
	dicts, err := dictionary.Default()
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	handler, err := server.New(server.Config{
		Catalog:    catalog,
		Provider:   dicts,
		Evaluator:  expr.New(),
		Translator: i18n.Default(),
		Locale:     "en",
		Logger:     zap.New(core),
	})
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{t: t, srv: srv, client: &http.Client{Jar: jar}, logs: logs}
}

func (h *harness) get(path string) (int, string) {
	h.t.Helper()
	resp, err := h.client.Get(h.srv.URL + path)
	require.NoError(h.t, err)
	return readBody(h.t, resp)
}

func (h *harness) post(path string, form url.Values) (int, string) {
	h.t.Helper()
	resp, err := h.client.PostForm(h.srv.URL+path, form)
	require.NoError(h.t, err)
	return readBody(h.t, resp)
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	status, body := h.get("/healthz")
	require.Equal(t, http.StatusOK, status)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.Equal(t, "ok", payload["status"])
	assert.EqualValues(t, 1, payload["documents"])
}

func TestIndexListsDocumentsByCategory(t *testing.T) {
	h := newHarness(t)
	status, body := h.get("/")
	require.Equal(t, http.StatusOK, status)

	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "<h1>Documents</h1>")
	assert.Contains(t, body, "<h2>Family law</h2>")
	assert.Contains(t, body, `<a href="/wizard/family">Family</a>`)
	assert.Contains(t, body, `<a href="/register">Register</a>`)
}

func TestAssetsAreServed(t *testing.T) {
	h := newHarness(t)
	status, body := h.get("/assets/formwizard.css")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, ".fw-")
}

func TestUnknownDocumentIsNotFound(t *testing.T) {
	h := newHarness(t)
	status, _ := h.get("/wizard/ghost")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSessionCookieIsHTTPOnly(t *testing.T) {
	h := newHarness(t)
	resp, err := http.Get(h.srv.URL + "/wizard/family")
	require.NoError(t, err)
	defer resp.Body.Close()

	var found *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == server.SessionCookie {
			found = cookie
		}
	}
	require.NotNil(t, found)
	assert.True(t, found.HttpOnly)
	assert.NotEmpty(t, found.Value)
}

func TestWizardFlow(t *testing.T) {
	h := newHarness(t)

	status, body := h.get("/wizard/family")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `name="_step" value="married"`)

	_, body = h.post("/wizard/family", url.Values{"_step": {"married"}, "married": {"yes"}, "action": {"next"}})
	assert.Contains(t, body, `name="_step" value="kids"`)

	_, body = h.post("/wizard/family", url.Values{"_step": {"married"}, "married": {"no"}, "action": {"next"}})
	assert.Contains(t, body, `name="_step" value="kids"`, "stale posts are ignored")

	_, body = h.post("/wizard/family", url.Values{"_step": {"kids"}, "kids": {"2"}, "action": {"next"}})
	assert.Contains(t, body, `name="_step" value="children"`)
	assert.Contains(t, body, `name="children.0.name"`)
	assert.Contains(t, body, `name="children.1.name"`)

	_, body = h.post("/wizard/family", url.Values{
		"_step":           {"children"},
		"children.0.name": {"Ann"},
		"children.1.name": {"Bob"},
		"action":          {"next"},
	})
	assert.Contains(t, body, `name="_step" value="done"`)
	assert.Contains(t, body, "<dd>Bob</dd>")

	_, body = h.post("/wizard/family", url.Values{"_step": {"done"}, "action": {"back"}})
	assert.Contains(t, body, `name="_step" value="children"`)
	assert.Contains(t, body, `value="Ann"`)

	_, body = h.post("/wizard/family", url.Values{
		"_step":           {"children"},
		"children.0.name": {"Ann"},
		"children.1.name": {"Bob"},
		"action":          {"next"},
	})
	_, body = h.post("/wizard/family", url.Values{"_step": {"done"}, "action": {"submit"}})
	assert.Contains(t, body, "Document data submitted")

	submitted := h.logs.FilterMessage("wizard submitted").All()
	require.Len(t, submitted, 1)
	assert.Equal(t, "Family", submitted[0].ContextMap()["title"])

	_, body = h.get("/wizard/family?reset=1")
	assert.Contains(t, body, `name="_step" value="married"`)
}

func TestSubmitOutsideFinalStepConflicts(t *testing.T) {
	h := newHarness(t)
	status, _ := h.post("/wizard/family", url.Values{"_step": {"married"}, "action": {"submit"}})
	assert.Equal(t, http.StatusConflict, status)
}

func TestWizardPartialRendersOnlyWidgets(t *testing.T) {
	h := newHarness(t)
	status, body := h.get("/wizard/family?partial=1")
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, `data-field="married"`)
}

func TestRegistrationThenProfile(t *testing.T) {
	h := newHarness(t)

	status, body := h.get("/register")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Get free access for 7 days")
	assert.Contains(t, body, `type="password"`)

	form := url.Values{
		"fullName":        {"Ada Lovelace"},
		"phone":           {"+7 701 123 45 67"},
		"city":            {"almaty"},
		"email":           {"bad"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
		"action":          {"submit"},
	}
	status, body = h.post("/register", form)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Enter a valid email address")

	form.Set("email", "ada@example.com")
	status, body = h.post("/register", form)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<h1>Documents</h1>", "registration redirects home")

	registered := h.logs.FilterMessage("registration submitted").All()
	require.Len(t, registered, 1)
	assert.NotContains(t, registered[0].ContextMap()["values"], "password")

	_, body = h.get("/profile")
	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "<output")
	assert.NotContains(t, body, `type="password"`)

	_, body = h.post("/profile", url.Values{"action": {"edit"}})
	assert.Contains(t, body, `type="password"`)
	assert.Contains(t, body, `value="ada@example.com"`)

	update := url.Values{
		"fullName":        {"Ada King"},
		"phone":           {"+7 701 123 45 67"},
		"email":           {"ada@example.com"},
		"password":        {""},
		"confirmPassword": {""},
		"action":          {"submit"},
	}
	status, body = h.post("/profile", update)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Profile saved")
	assert.Contains(t, body, "Ada King")
}

func TestProfileSaveRequiresEditMode(t *testing.T) {
	h := newHarness(t)
	status, _ := h.post("/profile", url.Values{"action": {"submit"}})
	assert.Equal(t, http.StatusConflict, status)
}

func TestVisitorsDoNotShareState(t *testing.T) {
	h := newHarness(t)
	h.post("/wizard/family", url.Values{"_step": {"married"}, "married": {"yes"}, "action": {"next"}})

	other := newHarnessClient(t, h)
	_, body := other.get("/wizard/family")
	assert.True(t, strings.Contains(body, `name="_step" value="married"`))
}

func newHarnessClient(t *testing.T, h *harness) *harness {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{t: t, srv: h.srv, client: &http.Client{Jar: jar}, logs: h.logs}
}
