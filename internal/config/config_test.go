package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Theme != ThemeSystem {
		t.Errorf("expected default theme %q, got %q", ThemeSystem, cfg.Theme)
	}
	if cfg.DiagramMarker != "d2" {
		t.Errorf("expected default diagram_marker %q, got %q", "d2", cfg.DiagramMarker)
	}
	if cfg.DebounceMs != 250 {
		t.Errorf("expected default debounce_ms 250, got %d", cfg.DebounceMs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.marklive.yml")

	original := DefaultConfig()
	original.Port = 9100
	original.Theme = ThemeDark
	original.DiagramMarker = "mermaid"
	original.CodeStyle = "monokai"
	original.Site.Include = []string{"docs/**/*.md"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Port != original.Port {
		t.Errorf("port: got %d, want %d", loaded.Port, original.Port)
	}
	if loaded.Theme != original.Theme {
		t.Errorf("theme: got %q, want %q", loaded.Theme, original.Theme)
	}
	if loaded.DiagramMarker != original.DiagramMarker {
		t.Errorf("diagram_marker: got %q, want %q", loaded.DiagramMarker, original.DiagramMarker)
	}
	if len(loaded.Site.Include) != 1 || loaded.Site.Include[0] != "docs/**/*.md" {
		t.Errorf("site.include: got %v", loaded.Site.Include)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultConfig().Port {
		t.Errorf("port = %d, want default %d", cfg.Port, DefaultConfig().Port)
	}
}

func TestEnvOverride(t *testing.T) {
	os.Setenv("MARKLIVE_PORT", "7777")
	os.Setenv("MARKLIVE_THEME", "dark")
	defer os.Unsetenv("MARKLIVE_PORT")
	defer os.Unsetenv("MARKLIVE_THEME")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7777 {
		t.Errorf("port = %d, want env override 7777", cfg.Port)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("theme = %q, want env override dark", cfg.Theme)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"unknown theme", func(c *Config) { c.Theme = "sepia" }},
		{"empty marker", func(c *Config) { c.DiagramMarker = "" }},
		{"marker with space", func(c *Config) { c.DiagramMarker = "a b" }},
		{"negative debounce", func(c *Config) { c.DebounceMs = -1 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty site output", func(c *Config) { c.Site.OutputDir = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
