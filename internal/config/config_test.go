package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "> ", cfg.Console.Prompt)
	assert.Equal(t, "expr", cfg.Console.Backend)
	assert.Equal(t, "replace-tail", cfg.Console.Mode)
	assert.Equal(t, 200, cfg.Console.HistorySize)
	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
console:
  backend: cel
catalog:
  path: /tmp/catalog.yaml
  debounce: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cel", cfg.Console.Backend)
	assert.Equal(t, "> ", cfg.Console.Prompt, "untouched keys keep their defaults")
	assert.Equal(t, "/tmp/catalog.yaml", cfg.Catalog.Path)
	assert.Equal(t, time.Second, cfg.Catalog.Debounce)
}

func TestThemeTableColors(t *testing.T) {
	cfg, err := Load(writeConfig(t, "theme:\n  key: \"#00ff00\"\n  header_bg: \"\"\n"))
	require.NoError(t, err)
	tc, err := cfg.Theme.TableColors()
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("#00ff00"), tc.KeyColor)
	assert.Equal(t, lipgloss.Color("12"), tc.HeaderFG, "default theme kept")
	assert.Nil(t, tc.HeaderBG, "empty falls back to the built-in color")

	_, err = ThemeConfig{Value: "300", Separator: "#12"}.TableColors()
	assert.ErrorContains(t, err, "theme.value")
	assert.ErrorContains(t, err, "theme.separator")
}

func TestLoadUsesUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "expr", cfg.Console.Backend)

	userDir := filepath.Dir(DefaultPath())
	require.NoError(t, os.MkdirAll(userDir, 0o700))
	require.NoError(t, os.WriteFile(DefaultPath(), []byte("console:\n  mode: replace-token\n"), 0o600))
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "replace-token", cfg.Console.Mode)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown_key", "console:\n  colour: red\n"},
		{"bad_backend", "console:\n  backend: lua\n"},
		{"bad_mode", "console:\n  mode: sideways\n"},
		{"negative_history", "console:\n  history_size: -1\n"},
		{"bad_duration", "catalog:\n  debounce: soon\n"},
		{"bad_log_format", "log:\n  format: logfmt\n"},
		{"bad_theme_color", "theme:\n  key: crimson\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshal(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	data, err := Marshal(cfg)
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)
	assert.Contains(t, string(data), "debounce: 250ms")
}
