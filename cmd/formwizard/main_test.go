package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

const tinyDoc = `
code: tiny
title: Tiny
category: Test
parsed:
  steps:
    - id: married
      type: radio
      title: Married?
      options: [yes, no]
    - id: done
      type: final
      title: Done
`

// scriptDriver answers prompts from a fixed list.
type scriptDriver struct {
	answers []any
	infos   []string
}

func (d *scriptDriver) next(msg string) (any, error) {
	if len(d.answers) == 0 {
		return nil, fmt.Errorf("script: no answer left for %q", msg)
	}
	answer := d.answers[0]
	d.answers = d.answers[1:]
	return answer, nil
}

func (d *scriptDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	answer, err := d.next(cfg.Message)
	text, _ := answer.(string)
	return text, err
}

func (d *scriptDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	answer, err := d.next(cfg.Message)
	on, _ := answer.(bool)
	return on, err
}

func (d *scriptDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	answer, err := d.next(cfg.Message)
	idx, _ := answer.(int)
	return idx, err
}

func (d *scriptDriver) MultiSelect(_ context.Context, cfg tui.SelectConfig) ([]int, error) {
	answer, err := d.next(cfg.Message)
	picked, _ := answer.([]int)
	return picked, err
}

func (d *scriptDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	answer, err := d.next(cfg.Message)
	text, _ := answer.(string)
	return text, err
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--plain", "--locale", "en"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "valid-email", args: []string{"email", "ada@example.com"}, want: "✓ valid"},
		{name: "invalid-email", args: []string{"email", "bad"}, want: "✗ Enter a valid email address", wantErr: true},
		{name: "short-password", args: []string{"password", "a1"}, want: "at least 6 characters", wantErr: true},
		{name: "confirm-mismatch", args: []string{"confirm", "secret1", "secret2"}, want: "✗ Passwords do not match", wantErr: true},
		{name: "confirm-match", args: []string{"confirm", "secret1", "secret1"}, want: "✓ valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &app{}, append([]string{"validate"}, tt.args...)...)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidValue)
			} else {
				require.NoError(t, err)
			}
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestValidateCommandRejectsUnknownValidator(t *testing.T) {
	_, err := execute(t, &app{}, "validate", "iban", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown validator "iban"`)
}

func TestDictionariesCommand(t *testing.T) {
	out, err := execute(t, &app{}, "dictionaries")
	require.NoError(t, err)
	assert.Contains(t, out, "cities")
	assert.Contains(t, out, "relationship_degree")

	out, err = execute(t, &app{}, "dicts", "cities")
	require.NoError(t, err)
	assert.Contains(t, out, "almaty")
	assert.Contains(t, out, "Алматы")

	_, err = execute(t, &app{}, "dictionaries", "planets")
	require.Error(t, err)
}

func TestInspectCommand(t *testing.T) {
	out, err := execute(t, &app{}, "inspect", "power_of_attorney")
	require.NoError(t, err)
	assert.Contains(t, out, "(power_of_attorney)")
	assert.Contains(t, out, "principal")
	assert.Contains(t, out, "dynamic-multi-block")

	out, err = execute(t, &app{}, "inspect", writeDoc(t, "tiny.yaml", tinyDoc), "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "code: tiny")

	_, err = execute(t, &app{}, "inspect", "power_of_attorney", "--format", "xml")
	require.Error(t, err)
}

func TestLintCommand(t *testing.T) {
	good := writeDoc(t, "tiny.yaml", tinyDoc)
	broken := writeDoc(t, "broken.json", `{"title": "Broken", "parsed": {"steps": [{"id": "a", "type": "wizardry"}]}}`)

	out, err := execute(t, &app{}, "lint", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good)

	out, err = execute(t, &app{}, "lint", good, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 document(s) failed lint")
	assert.Contains(t, out, "✗ "+broken)
	assert.Contains(t, out, "/parsed/steps/0/type")
}

func TestRenderCommand(t *testing.T) {
	out, err := execute(t, &app{}, "render", "power_of_attorney", "--step", "powers")
	require.NoError(t, err)
	assert.Contains(t, out, `name="_step" value="powers"`)

	target := filepath.Join(t.TempDir(), "step.html")
	out, err = execute(t, &app{}, "render", writeDoc(t, "tiny.yaml", tinyDoc), "--output", target, "--partial")
	require.NoError(t, err)
	assert.Contains(t, out, "Step written to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `data-field="married"`)
	assert.NotContains(t, string(data), "<!DOCTYPE html>")
}

func TestRenderCommandJSON(t *testing.T) {
	out, err := execute(t, &app{}, "render", writeDoc(t, "tiny.yaml", tinyDoc), "--renderer", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"heading": "Married?"`)

	_, err = execute(t, &app{}, "render", writeDoc(t, "tiny.yaml", tinyDoc), "--renderer", "pdf")
	require.Error(t, err)
}

func TestRenderCommandAppliesPreset(t *testing.T) {
	preset := writeDoc(t, "preset.json", `{"steps": {"married": {"title": "Are you married?"}}}`)
	out, err := execute(t, &app{}, "render", writeDoc(t, "tiny.yaml", tinyDoc), "--preset", preset)
	require.NoError(t, err)
	assert.Contains(t, out, "Are you married?")
}

func TestPromptCommand(t *testing.T) {
	driver := &scriptDriver{answers: []any{0, true}}
	out, err := execute(t, &app{driver: driver}, "prompt", writeDoc(t, "tiny.yaml", tinyDoc))
	require.NoError(t, err)
	assert.Contains(t, out, `{"married":"yes"}`)
	assert.Contains(t, driver.infos, "Tiny")
}

func TestPromptCommandAbortIsNotAnError(t *testing.T) {
	driver := &scriptDriver{answers: []any{true}}
	out, err := execute(t, &app{driver: driver}, "prompt", writeDoc(t, "final.yaml", `
code: final
title: Final only
parsed:
  steps:
    - id: done
      type: final
`))
	require.NoError(t, err)
	assert.NotContains(t, out, "aborted")

	driver = &scriptDriver{answers: []any{false}}
	out, err = execute(t, &app{driver: driver}, "prompt", writeDoc(t, "final.yaml", `
code: final
title: Final only
parsed:
  steps:
    - id: done
      type: final
`))
	require.NoError(t, err)
	assert.Contains(t, out, "! aborted")
}

func TestPromptCommandRejectsFormat(t *testing.T) {
	_, err := execute(t, &app{driver: &scriptDriver{}}, "prompt", "power_of_attorney", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestAccountProfileCommand(t *testing.T) {
	driver := &scriptDriver{answers: []any{
		"Ada L.", "", "", "", "+7 701 123 45 67", 0, "ada@example.com", "", "",
	}}
	out, err := execute(t, &app{driver: driver}, "account", "profile",
		"--set", "fullName=Ada",
		"--set", "email=ada@example.com",
		"--set", "phone=+7 701 123 45 67",
		"--set", "city=almaty",
	)
	require.NoError(t, err)
	assert.Contains(t, out, `"fullName": "Ada L."`)
	assert.NotContains(t, out, "password")
	assert.Equal(t, "✓ Profile saved", driver.infos[len(driver.infos)-1])
}

func TestConfigFlagsReachCommands(t *testing.T) {
	a := &app{}
	_, err := execute(t, a, "--visibility-engine", "expr", "dictionaries")
	require.NoError(t, err)
	assert.Equal(t, "expr", a.cfg.Visibility.Engine)
	assert.Equal(t, "en", a.cfg.Locale)

	_, err = execute(t, &app{}, "--visibility-engine", "lua", "dictionaries")
	require.Error(t, err)
}

func TestServeHandlerServesSamples(t *testing.T) {
	a := &app{logger: zap.NewNop()}
	require.NoError(t, a.setup(newRootCmd(a)))

	handler, err := a.handler(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/wizard/power_of_attorney")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
