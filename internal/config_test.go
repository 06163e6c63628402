package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tudu/internal/breakpoint"
	"tudu/internal/layout"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestDefaultConfigMatchesDefaultFile(t *testing.T) {
	var fromFile Config
	_, err := toml.Decode(defaultConfigContent, &fromFile)
	require.NoError(t, err)

	// The template documents the defaults; they must not drift apart.
	assert.Equal(t, *DefaultConfig(), fromFile)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "sqlite"

[breakpoints]
large_desktop = 200
desktop = 120
tablet = 80

[layout.mobile]
visible_rows = 4
row_height = 2
scrollbar = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, config.Storage.Backend)
	assert.Equal(t, 200, config.Breakpoints.LargeDesktop)
	assert.Equal(t, layout.Policy{VisibleRows: 4, RowHeight: 2, Scrollbar: true}, config.Layout.Table().For(breakpoint.Mobile))
	// Untouched sections keep their defaults.
	assert.Equal(t, layout.TerminalTable.For(breakpoint.Desktop), config.Layout.Desktop)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{"backend", "[storage]\nbackend = \"redis\"\n", "storage.backend"},
		{"thumb", "[ui]\nmin_thumb_height = 0\n", "ui.min_thumb_height"},
		{"breakpoints", "[breakpoints]\ntablet = 150\n", "breakpoints"},
		{"layout", "[layout.tablet]\nrow_height = 0\n", "layout.tablet"},
		{"syntax", "[storage\n", "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestSaveDefaultConfigKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tudu", "config.toml")
	require.NoError(t, SaveDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfigContent, string(data))

	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0644))
	require.NoError(t, SaveDefaultConfig(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))
}

func TestStorePath(t *testing.T) {
	t.Setenv("TUDU_FILE", "")
	config := DefaultConfig()
	config.Storage.Path = "/var/lib/tudu/todo.json"
	assert.Equal(t, "/var/lib/tudu/todo.json", config.StorePath())

	t.Setenv("TUDU_FILE", "/tmp/env.json")
	assert.Equal(t, "/tmp/env.json", config.StorePath())
}
