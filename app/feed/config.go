package feed

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source profile loading. The wire profile is a small YAML file carrying the
// upstream URL and fetch knobs; when the file is absent the built-in CLS
// telegraph profile is used.

const (
	defaultWireURL = "https://www.cls.cn/telegraph"
	defaultSource  = "财联社"
	defaultReferer = "https://www.cls.cn/"

	defaultRefreshInterval = 60 // seconds
	defaultTimeout         = 30 // seconds
	defaultMaxItems        = 500
)

// LoadConfig reads a wire profile from path, or returns the default profile
// when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		cfg := &Config{Name: "telegraph", Settings: ConfigSettings{Enabled: true}}
		setConfigDefaults(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wire profile: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse wire profile: %w", err)
	}

	cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	setConfigDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid wire profile %s: %w", path, err)
	}

	return &cfg, nil
}

func setConfigDefaults(cfg *Config) {
	if cfg.URL == "" {
		cfg.URL = defaultWireURL
	}
	if cfg.Source == "" {
		cfg.Source = defaultSource
	}
	if cfg.Referer == "" {
		cfg.Referer = defaultReferer
	}
	if cfg.Settings.RefreshInterval == 0 {
		cfg.Settings.RefreshInterval = defaultRefreshInterval
	}
	if cfg.Settings.Timeout == 0 {
		cfg.Settings.Timeout = defaultTimeout
	}
	if cfg.Settings.MaxItems == 0 {
		cfg.Settings.MaxItems = defaultMaxItems
	}
}

func validateConfig(cfg *Config) error {
	if !strings.HasPrefix(cfg.URL, "http://") && !strings.HasPrefix(cfg.URL, "https://") {
		return fmt.Errorf("url must be an HTTP(S) URL, got %q", cfg.URL)
	}
	if cfg.Settings.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must not be negative")
	}
	if cfg.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
