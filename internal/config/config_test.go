package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RenderScale != 3 {
		t.Errorf("RenderScale = %d, want 3", cfg.RenderScale)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "console" {
		t.Errorf("log defaults = %q %q", cfg.LogLevel, cfg.LogFormat)
	}
	if _, err := os.Stat(GetConfigFilePath()); err != nil {
		t.Errorf("default config file not written: %v", err)
	}

	// A second load reads the file just written.
	again, err := Load("")
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if again.CatalogPath != cfg.CatalogPath {
		t.Errorf("reloaded catalog path %q != %q", again.CatalogPath, cfg.CatalogPath)
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "catalog_path = \"/data/cards.json\"\nrender_scale = 2\nworkers = 4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CatalogPath != "/data/cards.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.RenderScale != 2 || cfg.Workers != 4 {
		t.Errorf("overrides not applied: scale=%d workers=%d", cfg.RenderScale, cfg.Workers)
	}
	// Unset keys keep defaults.
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	tests := []string{
		"render_scale = 20\n",
		"workers = -1\n",
		"log_format = \"xml\"\n",
	}
	for i, content := range tests {
		path := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
