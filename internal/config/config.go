package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the application configuration. Everything the core needs
// is passed in explicitly from here; no package reads settings on its own.
type Config struct {
	CatalogPath   string `toml:"catalog_path"`
	CardImagesDir string `toml:"card_images_dir"`
	ExportDir     string `toml:"export_dir"`
	HistoryDB     string `toml:"history_db"`

	RenderScale int `toml:"render_scale"`
	Workers     int `toml:"workers"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	NotifyTopic string `toml:"notify_topic"`
}

// GetXDGDataHome returns XDG_DATA_HOME or its default path.
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or its default path.
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file.
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardpress", "config.toml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir := filepath.Join(GetXDGDataHome(), "cardpress")
	return &Config{
		CatalogPath:   filepath.Join(dataDir, "FightingStyleCards.json"),
		CardImagesDir: filepath.Join(dataDir, "card-images"),
		ExportDir:     filepath.Join(dataDir, "exports"),
		HistoryDB:     filepath.Join(dataDir, "runs.db"),
		RenderScale:   3,
		Workers:       0, // 0 means one worker per CPU
		LogLevel:      "info",
		LogFormat:     "console",
	}
}

// Load reads the config file at path, or the default XDG location when path
// is empty. A missing file at the default location is created with defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return createDefaultConfig(path)
	}

	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.RenderScale < 1 || c.RenderScale > 8 {
		return fmt.Errorf("render_scale must be between 1 and 8, got %d", c.RenderScale)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// createDefaultConfig writes the default config file and returns it.
func createDefaultConfig(path string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := Default()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}
