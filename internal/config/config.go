// Package config loads the formwizard settings from a YAML file, FORMWIZARD_
// environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORMWIZARD_SERVER_ADDR.
const EnvPrefix = "FORMWIZARD"

// Visibility engines.
const (
	EngineBuiltin = "builtin"
	EngineExpr    = "expr"
)

// Config is the decoded application configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Schemas      SchemasConfig      `mapstructure:"schemas"`
	Dictionaries DictionariesConfig `mapstructure:"dictionaries"`
	Visibility   VisibilityConfig   `mapstructure:"visibility"`
	Locale       string             `mapstructure:"locale"`
	Log          LogConfig          `mapstructure:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr       string        `mapstructure:"addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	// Secure marks the session cookie Secure.
	Secure bool `mapstructure:"secure"`
}

// SchemasConfig points at extra documents. The bundled samples are always
// loaded; documents in Dir replace samples with the same code.
type SchemasConfig struct {
	Dir       string `mapstructure:"dir"`
	AllowHTTP bool   `mapstructure:"allow_http"`
}

type DictionariesConfig struct {
	Dir string `mapstructure:"dir"`
}

type VisibilityConfig struct {
	Engine string `mapstructure:"engine"`
}

// LogConfig selects the zap logger flavour.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.session_ttl", 30*time.Minute)
	v.SetDefault("server.secure", false)
	v.SetDefault("schemas.dir", "")
	v.SetDefault("schemas.allow_http", false)
	v.SetDefault("dictionaries.dir", "")
	v.SetDefault("visibility.engine", EngineBuiltin)
	v.SetDefault("locale", "ru")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Default returns the configuration with only defaults applied.
func Default() Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return cfg
}

// Load reads path (optional), applies FORMWIZARD_ environment overrides and
// the flags bound under their key names. Flags are matched by name with
// dashes turned into dots, so --server-addr overrides server.addr.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(flag *pflag.Flag) {
			key, ok := flagKey(flag.Name)
			if !ok {
				return
			}
			if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("config: bind flags: %w", bindErr)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c Config) Validate() error {
	switch c.Visibility.Engine {
	case EngineBuiltin, EngineExpr:
	default:
		return fmt.Errorf("config: visibility.engine %q: want %q or %q", c.Visibility.Engine, EngineBuiltin, EngineExpr)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q: want console or json", c.Log.Format)
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("config: server.session_ttl must be positive, got %s", c.Server.SessionTTL)
	}
	return nil
}

var knownKeys = map[string]struct{}{
	"server.addr": {}, "server.session_ttl": {}, "server.secure": {},
	"schemas.dir": {}, "schemas.allow_http": {},
	"dictionaries.dir":  {},
	"visibility.engine": {},
	"locale":            {},
	"log.level":         {}, "log.format": {},
}

// flagKey maps a flag name such as server-session-ttl onto its config key.
func flagKey(name string) (string, bool) {
	dotted := strings.ReplaceAll(name, "-", ".")
	for key := range knownKeys {
		if strings.ReplaceAll(key, "_", ".") == dotted {
			return key, true
		}
	}
	return "", false
}
