package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/stamp/internal/locale"
	"github.com/ziadkadry99/stamp/internal/render"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".stamp.yml"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (STAMP_*). Nested keys use a double
// underscore: STAMP_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("STAMP_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "STAMP_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Marker == "" {
		return fmt.Errorf("marker is required")
	}
	if _, err := render.New(nopFormatter{}, c.Marker); err != nil {
		return fmt.Errorf("invalid marker: %w", err)
	}

	if _, err := locale.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}

	if c.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative")
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if c.Server.CacheMaxAge < 0 {
		return fmt.Errorf("server.cache_max_age must be non-negative")
	}

	return nil
}

// Formatter builds the locale formatter described by the config. An empty
// locale resolves to the ambient one.
func (c *Config) Formatter() (*locale.Formatter, error) {
	loc, err := locale.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return locale.Default().ForLocale(c.Locale, loc), nil
}

// Renderer builds a timestamp renderer from the configured locale, zone and
// marker.
func (c *Config) Renderer() (*render.Renderer, error) {
	f, err := c.Formatter()
	if err != nil {
		return nil, err
	}
	return render.New(f, c.Marker)
}

// nopFormatter lets Validate reuse render.New for marker checks.
type nopFormatter struct{}

func (nopFormatter) Format(time.Time) string { return "" }
