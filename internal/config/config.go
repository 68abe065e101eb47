// Package config loads and stores the tool configuration from
// ~/.config/resp/config.yaml. Missing files yield defaults, so the tool
// works out of the box with nothing but GEMINI_API_KEY set.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config is the persisted tool configuration.
type Config struct {
	// Model is the Gemini model identifier, e.g. "models/gemini-2.0-flash".
	Model string `yaml:"model,omitempty"`

	// TimeoutSeconds bounds one whole streaming request.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Grounding enables the googleSearch tool on chat requests.
	Grounding bool `yaml:"grounding,omitempty"`
}

var (
	configDir  string
	configPath string
)

func init() {
	homeDir := os.Getenv("HOME")
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	}
	configDir = filepath.Join(homeDir, ".config", "resp")
	configPath = filepath.Join(configDir, "config.yaml")
}

// ensureConfigDir creates the config directory if it doesn't exist
func ensureConfigDir() error {
	return os.MkdirAll(configDir, 0700)
}

// Load reads the configuration, returning defaults when no file exists.
func Load() (*Config, error) {
	return loadFrom(configPath)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the configuration to file.
func Save(cfg *Config) error {
	if err := ensureConfigDir(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	return configPath
}
