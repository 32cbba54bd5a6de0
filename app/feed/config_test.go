package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("Expected built-in profile, got error: %v", err)
	}

	if cfg.Name != "telegraph" {
		t.Errorf("Expected name telegraph, got %q", cfg.Name)
	}
	if cfg.URL != "https://www.cls.cn/telegraph" {
		t.Errorf("Expected default URL, got %q", cfg.URL)
	}
	if cfg.Source != "财联社" {
		t.Errorf("Expected default source, got %q", cfg.Source)
	}
	if !cfg.Settings.Enabled {
		t.Errorf("Expected built-in profile to be enabled")
	}
	if cfg.Settings.RefreshInterval != 60 {
		t.Errorf("Expected default refresh interval 60, got %d", cfg.Settings.RefreshInterval)
	}
	if cfg.Settings.Timeout != 30 {
		t.Errorf("Expected default timeout 30, got %d", cfg.Settings.Timeout)
	}
	if cfg.Settings.MaxItems != 500 {
		t.Errorf("Expected default max items 500, got %d", cfg.Settings.MaxItems)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	content := `url: "https://example.com/wire"
source: "测试源"
referer: "https://example.com/"
settings:
  enabled: true
  refresh_interval: 120
  timeout: 15
`
	path := filepath.Join(t.TempDir(), "custom-wire.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Expected profile to load, got error: %v", err)
	}

	if cfg.Name != "custom-wire" {
		t.Errorf("Expected name derived from filename, got %q", cfg.Name)
	}
	if cfg.URL != "https://example.com/wire" {
		t.Errorf("Expected URL from file, got %q", cfg.URL)
	}
	if cfg.Source != "测试源" {
		t.Errorf("Expected source from file, got %q", cfg.Source)
	}
	if cfg.Settings.RefreshInterval != 120 {
		t.Errorf("Expected refresh interval 120, got %d", cfg.Settings.RefreshInterval)
	}
	if cfg.Settings.MaxItems != 500 {
		t.Errorf("Expected default max items to fill in, got %d", cfg.Settings.MaxItems)
	}
}

func TestLoadConfig_InvalidURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("url: \"ftp://example.com\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Errorf("Expected error for non-HTTP URL")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Errorf("Expected error for missing profile file")
	}
}
