// Package config loads the tabc configuration: the embedded defaults merged
// with an optional user file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/internal/exec"
	"github.com/oakwood-commons/tabc/internal/formatter"
	"github.com/oakwood-commons/tabc/pkg/logger"
	"github.com/oakwood-commons/tabc/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// Config is the full configuration tree.
type Config struct {
	Console ConsoleConfig `yaml:"console"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
	Theme   ThemeConfig   `yaml:"theme"`
}

// ConsoleConfig controls the interactive shell.
type ConsoleConfig struct {
	Prompt       string `yaml:"prompt"`
	Backend      string `yaml:"backend"`
	Mode         string `yaml:"mode"`
	HistorySize  int    `yaml:"history_size"`
	PreviewLimit int    `yaml:"preview_limit"`
}

// CatalogConfig locates the catalog definition file.
type CatalogConfig struct {
	Path     string        `yaml:"path"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// ThemeConfig colors the catalog tables. Values are ANSI 256 codes or hex
// colors; empty keeps the built-in color.
type ThemeConfig struct {
	HeaderFG  string `yaml:"header_fg"`
	HeaderBG  string `yaml:"header_bg"`
	Key       string `yaml:"key"`
	Value     string `yaml:"value"`
	Separator string `yaml:"separator"`
}

// TableColors converts the theme for formatter.SetTableTheme.
func (t ThemeConfig) TableColors() (formatter.TableColors, error) {
	var tc formatter.TableColors
	var errs []error
	for _, f := range []struct {
		key string
		val string
		dst *color.Color
	}{
		{"header_fg", t.HeaderFG, &tc.HeaderFG},
		{"header_bg", t.HeaderBG, &tc.HeaderBG},
		{"key", t.Key, &tc.KeyColor},
		{"value", t.Value, &tc.ValueColor},
		{"separator", t.Separator, &tc.SeparatorColor},
	} {
		c, err := formatter.ParseColor(f.val)
		if err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %w", f.key, err))
			continue
		}
		*f.dst = c
	}
	return tc, errors.Join(errs...)
}

// LogConfig sets logging level and destination.
type LogConfig struct {
	Level  int8   `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := decode(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the per-user config file location, for example
// $XDG_CONFIG_HOME/tabc/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, settings.CliBinaryName, "config.yaml")
}

// Load merges the file at path over the defaults. An empty path falls back
// to DefaultPath when that file exists.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		path = DefaultPath()
		if _, statErr := os.Stat(path); path == "" || statErr != nil {
			return cfg, cfg.Validate()
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// decode overlays data onto cfg; keys absent from data keep their values.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks enumerated values and ranges.
func (c Config) Validate() error {
	var errs []error
	switch c.Console.Backend {
	case exec.BackendExpr, exec.BackendCEL:
	default:
		errs = append(errs, fmt.Errorf("console.backend: unknown backend %q", c.Console.Backend))
	}
	if _, ok := completion.ParseMode(c.Console.Mode); !ok {
		errs = append(errs, fmt.Errorf("console.mode: unknown mode %q", c.Console.Mode))
	}
	if c.Console.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("console.history_size: must not be negative"))
	}
	if c.Console.PreviewLimit < 0 {
		errs = append(errs, fmt.Errorf("console.preview_limit: must not be negative"))
	}
	if !logger.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	if _, err := c.Theme.TableColors(); err != nil {
		errs = append(errs, err)
	}
	if c.Catalog.Debounce < 0 {
		errs = append(errs, fmt.Errorf("catalog.debounce: must not be negative"))
	}
	return errors.Join(errs...)
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
