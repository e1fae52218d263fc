package config_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/internal/config"
	"github.com/goliatone/go-formwizard/pkg/visibility/expr"
	"github.com/goliatone/go-formwizard/pkg/visibility/exprlang"
)

func TestDefaults(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	assert.Equal(t, config.EngineBuiltin, cfg.Visibility.Engine)
	assert.Equal(t, "ru", cfg.Locale)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Schemas.Dir)
}

func TestLoadLayersFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formwizard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7000"
  session_ttl: 5m
schemas:
  dir: ./docs
visibility:
  engine: expr
locale: en
`), 0o600))

	t.Setenv("FORMWIZARD_LOG_FORMAT", "json")
	t.Setenv("FORMWIZARD_SERVER_ADDR", ":7500")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("locale", "", "")
	flags.Duration("server-session-ttl", 0, "")
	flags.String("unrelated", "", "")
	require.NoError(t, flags.Parse([]string{"--server-session-ttl=90s"}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, ":7500", cfg.Server.Addr, "env beats file")
	assert.Equal(t, 90*time.Second, cfg.Server.SessionTTL, "changed flag beats file")
	assert.Equal(t, "en", cfg.Locale, "unchanged flag keeps file value")
	assert.Equal(t, "./docs", cfg.Schemas.Dir)
	assert.Equal(t, config.EngineExpr, cfg.Visibility.Engine)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"engine": "visibility:\n  engine: lua\n",
		"format": "log:\n  format: xml\n",
		"ttl":    "server:\n  session_ttl: 0s\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := config.Load(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := config.LogConfig{Level: "debug", Format: "json"}.Logger(&buf)
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "debug", entry["level"])

	buf.Reset()
	logger, err = config.LogConfig{Level: "warn", Format: "console"}.Logger(&buf)
	require.NoError(t, err)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	_, err = config.LogConfig{Level: "loud"}.Logger(&buf)
	assert.Error(t, err)
}

func TestEvaluatorSelection(t *testing.T) {
	assert.IsType(t, &expr.Evaluator{}, config.VisibilityConfig{Engine: config.EngineBuiltin}.Evaluator())
	assert.IsType(t, &exprlang.Evaluator{}, config.VisibilityConfig{Engine: config.EngineExpr}.Evaluator())
}
