// Package settings persists user configuration, most notably the Gemini
// API key, under the platform config directory. Environment variables
// override anything stored on disk.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"k8s.io/klog/v2"
)

const (
	configDirName  = "WoodWayConverter"
	configFileName = "config.json"
)

// Settings is the on-disk configuration, merged with environment overrides.
type Settings struct {
	GeminiAPIKey string `json:"gemini_api_key,omitempty" env:"WW_GEMINI_API_KEY"`
	GeminiModel  string `json:"gemini_model,omitempty" env:"WW_GEMINI_MODEL"`
	TaxonomyPath string `json:"taxonomy_path,omitempty" env:"WW_TAXONOMY"`
}

// ConfigPath returns the path to config.json, creating the directory if
// needed. WW_CONFIG_DIR overrides the platform default.
func ConfigPath() (string, error) {
	dir := os.Getenv("WW_CONFIG_DIR")
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = os.Getenv("HOME")
		}
		dir = filepath.Join(base, configDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads settings from disk, then applies environment overrides. A
// missing or malformed config file yields defaults rather than an error.
func Load() (Settings, error) {
	s := Settings{}

	path, err := ConfigPath()
	if err != nil {
		return s, err
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run
	case err != nil:
		klog.Warningf("read %s: %v", path, err)
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			klog.Warningf("malformed %s, using defaults: %v", path, err)
			s = Settings{}
		}
	}

	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse environment: %w", err)
	}
	return s, nil
}

// Save writes settings to disk.
func Save(s Settings) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// SaveGeminiKey stores an API key, preserving the rest of the config.
func SaveGeminiKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty API key")
	}
	s, err := Load()
	if err != nil {
		return err
	}
	s.GeminiAPIKey = key
	return Save(s)
}

// HasGeminiKey reports whether an API key is available from disk or the
// environment.
func HasGeminiKey() bool {
	s, err := Load()
	return err == nil && s.GeminiAPIKey != ""
}
