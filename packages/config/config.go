// Package config loads optional client defaults from a rusttpx.yaml file.
// The file is discovered in the working directory; CLI flags always win
// over file values.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the file-level defaults for the CLI. Pointer booleans
// distinguish "unset" from an explicit false.
type Config struct {
	Timeout         int               `yaml:"timeout,omitempty"` // milliseconds
	MaxRedirects    int               `yaml:"maxRedirects,omitempty"`
	FollowRedirects *bool             `yaml:"followRedirects,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"` // default headers for all requests
	UserAgent       string            `yaml:"userAgent,omitempty"`
	NoColor         *bool             `yaml:"noColor,omitempty"`
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".rusttpx.yaml",
	".rusttpx.yml",
	"rusttpx.yaml",
	"rusttpx.yml",
}

func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetFollowRedirects returns the follow redirects setting, defaulting to true
func (c *Config) GetFollowRedirects() bool {
	return getBool(c.FollowRedirects, true)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Timeout:      30000, // 30 seconds
		MaxRedirects: 10,
	}
}

// LoadConfig loads configuration from the specified path, or searches the
// current directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// returning defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}
