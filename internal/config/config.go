// Package config loads the studio configuration file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DatabasePath string `yaml:"database_path,omitempty" json:"database_path"`
	SocketPath   string `yaml:"socket_path,omitempty" json:"socket_path"`
	LogPath      string `yaml:"log_path,omitempty" json:"log_path"`
	LogLevel     string `yaml:"log_level,omitempty" json:"log_level"` // debug, info, warn, error
	WebAddr      string `yaml:"web_addr,omitempty" json:"web_addr"`
	BlobDir      string `yaml:"blob_dir,omitempty" json:"blob_dir"`

	// DisableLive turns off the daemon connection; views load once and never refresh
	DisableLive bool `yaml:"disable_live,omitempty" json:"disable_live"`

	ColorScheme ColorScheme `yaml:"theme,omitempty" json:"theme"`
}

// envOverrides maps environment variables onto config fields
var envOverrides = []struct {
	key   string
	field func(*Config) *string
}{
	{"STUDIO_DB_PATH", func(c *Config) *string { return &c.DatabasePath }},
	{"STUDIO_SOCKET_PATH", func(c *Config) *string { return &c.SocketPath }},
	{"STUDIO_LOG_PATH", func(c *Config) *string { return &c.LogPath }},
	{"STUDIO_LOG_LEVEL", func(c *Config) *string { return &c.LogLevel }},
	{"STUDIO_WEB_ADDR", func(c *Config) *string { return &c.WebAddr }},
	{"STUDIO_BLOB_DIR", func(c *Config) *string { return &c.BlobDir }},
}

// Default returns the configuration used when no file exists. Paths live under
// ~/.studio (or the working directory when the home directory is unknown).
func Default() *Config {
	dir := ".studio"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".studio")
	}
	return &Config{
		DatabasePath: filepath.Join(dir, "studio.db"),
		SocketPath:   filepath.Join(dir, "studio.sock"),
		LogPath:      filepath.Join(dir, "logs", "studio.log"),
		LogLevel:     "info",
		WebAddr:      "127.0.0.1:8080",
		BlobDir:      filepath.Join(dir, "blobs"),
		ColorScheme:  DefaultColorScheme(),
	}
}

// loadThemeFile merges the theme from STUDIO_THEME_FILE, if set and readable
func loadThemeFile(config *Config) {
	themeFile := os.Getenv("STUDIO_THEME_FILE")
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme ColorScheme `yaml:"theme"`
	}
	if yaml.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// Load loads config from the user's config directory.
// Returns the default config (plus env overrides) if the file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		cfg := Default()
		cfg.finish()
		return cfg, nil
	}
	return LoadFrom(configPath)
}

// LoadFrom loads config from an explicit path
func LoadFrom(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.finish()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
	}
	config.finish()
	return &config, nil
}

// finish layers theme file, env overrides and defaults, in that order of precedence
// below explicit values
func (c *Config) finish() {
	loadThemeFile(c)
	for _, o := range envOverrides {
		if v := os.Getenv(o.key); v != "" {
			*o.field(c) = v
		}
	}
	c.applyDefaults()
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the config as YAML to configPath
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// Path returns the location of the config file
func Path() (string, error) {
	return getConfigPath()
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "studio", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "studio", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	d := Default()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.DatabasePath, d.DatabasePath)
	fill(&c.SocketPath, d.SocketPath)
	fill(&c.LogPath, d.LogPath)
	fill(&c.LogLevel, d.LogLevel)
	fill(&c.WebAddr, d.WebAddr)
	fill(&c.BlobDir, d.BlobDir)
	c.ColorScheme.ApplyDefaults()
}
