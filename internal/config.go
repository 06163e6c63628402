package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"tudu/internal/breakpoint"
	"tudu/internal/layout"
)

// Config represents the application configuration
type Config struct {
	Storage     StorageConfig         `toml:"storage"`
	UI          UIConfig              `toml:"ui"`
	Breakpoints breakpoint.Thresholds `toml:"breakpoints"`
	Layout      LayoutConfig          `toml:"layout"`
	Httpd       HttpdConfig           `toml:"httpd"`
}

// StorageConfig selects where todos are persisted
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// UIConfig contains terminal UI settings
type UIConfig struct {
	MinThumbHeight int    `toml:"min_thumb_height"`
	LogFile        string `toml:"log_file"`
	Debug          bool   `toml:"debug"`
}

// LayoutConfig is the terminal list density for each breakpoint
type LayoutConfig struct {
	LargeDesktop layout.Policy `toml:"large_desktop"`
	Desktop      layout.Policy `toml:"desktop"`
	Tablet       layout.Policy `toml:"tablet"`
	Mobile       layout.Policy `toml:"mobile"`
}

// HttpdConfig contains web server settings
type HttpdConfig struct {
	Addr string `toml:"addr"`
}

// Table converts the per-breakpoint sections into a layout.Table.
func (l LayoutConfig) Table() layout.Table {
	return layout.Table{
		breakpoint.LargeDesktop: l.LargeDesktop,
		breakpoint.Desktop:      l.Desktop,
		breakpoint.Tablet:       l.Tablet,
		breakpoint.Mobile:       l.Mobile,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	t := layout.TerminalTable
	return &Config{
		Storage: StorageConfig{
			Backend: BackendFile,
		},
		UI: UIConfig{
			MinThumbHeight: 1,
		},
		Breakpoints: breakpoint.TerminalThresholds,
		Layout: LayoutConfig{
			LargeDesktop: t[breakpoint.LargeDesktop],
			Desktop:      t[breakpoint.Desktop],
			Tablet:       t[breakpoint.Tablet],
			Mobile:       t[breakpoint.Mobile],
		},
		Httpd: HttpdConfig{
			Addr: "127.0.0.1:7676",
		},
	}
}

// StorePath resolves the store location: the configured path, else the
// default for the backend.
func (c *Config) StorePath() string {
	if os.Getenv("TUDU_FILE") == "" && c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	return DefaultStorePath(c.Storage.Backend)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.UI.MinThumbHeight < 1 {
		return fmt.Errorf("ui.min_thumb_height: must be at least 1, got %d", c.UI.MinThumbHeight)
	}
	if err := c.Breakpoints.Validate(); err != nil {
		return err
	}
	return c.Layout.Table().Validate()
}

// UserConfigPath is ~/.config/tudu/config.toml.
func UserConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "tudu", "config.toml"), nil
}

// LoadConfig loads configuration from path, or from UserConfigPath when
// path is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		p, err := UserConfigPath()
		if err != nil {
			return config, nil // Return default config if can't get home dir
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// SaveDefaultConfig writes a commented default config to path unless one
// already exists.
func SaveDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config already exists
	}

	return os.WriteFile(path, []byte(defaultConfigContent), 0644)
}

const defaultConfigContent = `# tudu configuration file

[storage]
# "file" (JSON file) or "sqlite"
backend = "file"
# Defaults to ~/.tudu.json or ~/.tudu.db; $TUDU_FILE overrides
# path = "~/todo.json"

[ui]
# Smallest scrollbar thumb, in terminal lines
min_thumb_height = 1
# Write debug logs here (the terminal UI never logs to the screen)
# log_file = "/tmp/tudu.log"
debug = false

[breakpoints]
# Minimum terminal width, in columns, of each size class
large_desktop = 140
desktop = 100
tablet = 60

# Rows shown and lines per row for each size class
[layout.large_desktop]
visible_rows = 8
row_height = 3
scrollbar = true

[layout.desktop]
visible_rows = 6
row_height = 3
scrollbar = true

[layout.tablet]
visible_rows = 8
row_height = 2
scrollbar = true

[layout.mobile]
visible_rows = 10
row_height = 1
scrollbar = false

[httpd]
addr = "127.0.0.1:7676"
`

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
