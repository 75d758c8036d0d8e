// Package config loads the application configuration from environment
// variables (and an optional `.env` file), validates it and fills in
// defaults.
//
// Variables use the ERRORPAGE_ prefix and a double underscore for nesting:
//
//	ERRORPAGE_SERVER__PORT=8080           -> server.port
//	ERRORPAGE_TEMPLATES__DIR=./templates  -> templates.dir
//	ERRORPAGE_PRIMARY__DEBUG=true         -> primary.debug
package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process environment, if present,
	// before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// EnvPrefix is the prefix of every environment variable read by LoadConfig.
	EnvPrefix = "ERRORPAGE_"

	// ServiceName identifies this service in logs and APM.
	ServiceName = "errorpage"
)

// Config is the root configuration object.
//
// Observability is a pointer because the whole block is optional; defaults
// are injected when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Templates     TemplatesConfig      `koanf:"templates" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime.
type Primary struct {
	Env string `koanf:"env" validate:"required"`

	// Debug switches error pages to the diagnostic renderer. Never enable it
	// where the public can reach the service.
	Debug bool `koanf:"debug"`
}

// ServerConfig groups settings for the HTTP server. Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// 0 disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// TemplatesConfig describes where application error page templates live.
type TemplatesConfig struct {
	// Dir is the directory served under the @App namespace.
	Dir string `koanf:"dir" validate:"required"`

	// Layouts are glob patterns, relative to Dir, parsed with every page.
	Layouts []string `koanf:"layouts"`

	// Cache keeps compiled templates in memory. Turn it off while editing.
	Cache bool `koanf:"cache"`

	// Preview exposes the /_error/:code routes.
	Preview bool `koanf:"preview"`
}

// DefaultConfig returns the values used for anything the environment does
// not set.
func DefaultConfig() Config {
	return Config{
		Primary: Primary{
			Env: "development",
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          20,
		},
		Templates: TemplatesConfig{
			Dir:     "templates",
			Layouts: []string{"layouts/*.gohtml"},
			Cache:   true,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// listKeys are settings whose environment value is a comma separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
	"templates.layouts":           true,
}

// envKey maps ERRORPAGE_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// envValue maps a variable to its koanf key and splits list settings.
func envValue(key, value string) (string, interface{}) {
	key = envKey(key)
	if !listKeys[key] {
		return key, value
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// LoadConfig builds the configuration from defaults and the environment,
// validates it and applies observability defaults.
//
// List settings (server.cors_allowed_origins, templates.layouts) take comma
// separated values.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	// Unmarshal only overwrites what the environment sets.
	defaults := DefaultConfig()
	mainConfig := &defaults
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal main config")
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return mainConfig, nil
}

// IsProduction reports whether the service runs in the production environment.
func (c *Config) IsProduction() bool {
	return c.Primary.Env == "production"
}
