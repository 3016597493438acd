package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Dialer  DialerConfig  `toml:"dialer"`
	UI      UIConfig      `toml:"ui"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where the contact list is kept
type StorageConfig struct {
	Backend string `toml:"backend"` // sqlite, file, memory or none
	Path    string `toml:"path"`
}

// DialerConfig holds the command used to open tel: links
type DialerConfig struct {
	// Command is run with the tel: URI appended. Empty picks the first
	// available opener.
	Command string `toml:"command"`
}

// UIConfig holds display defaults
type UIConfig struct {
	Locale string `toml:"locale"`
	Sort   string `toml:"sort"`
	Filter string `toml:"filter"`
}

// ExportConfig holds where backups are written
type ExportConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig holds logging options. The terminal belongs to the UI, so logs
// only ever go to a file.
type LogConfig struct {
	Path  string `toml:"path"`
	Level string `toml:"level"`
}

// Dir returns the directory holding the config file and default data
func Dir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "family-contacts")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    filepath.Join(Dir(), "storage.db"),
		},
		UI: UIConfig{
			Locale: "en",
			Sort:   "name_asc",
			Filter: "all",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is the standard config file location
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// No config file, return defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	return cfg, nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return c.SaveTo(DefaultPath())
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
