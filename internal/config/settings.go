package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownKey is returned by Set for a key the config file does not have
	ErrUnknownKey = errors.New("unknown config key")
	// ErrInvalidValue is returned by Set for a value the key does not accept
	ErrInvalidValue = errors.New("invalid config value")
)

// LogLevels are the accepted values of log_level
var LogLevels = []string{"debug", "info", "warn", "error"}

const disableLiveKey = "disable_live"

// stringSettings maps file keys onto string fields
var stringSettings = map[string]func(*Config) *string{
	"database_path": func(c *Config) *string { return &c.DatabasePath },
	"socket_path":   func(c *Config) *string { return &c.SocketPath },
	"log_path":      func(c *Config) *string { return &c.LogPath },
	"log_level":     func(c *Config) *string { return &c.LogLevel },
	"web_addr":      func(c *Config) *string { return &c.WebAddr },
	"blob_dir":      func(c *Config) *string { return &c.BlobDir },
}

// Keys returns the keys Set accepts, sorted
func Keys() []string {
	keys := append(slices.Collect(maps.Keys(stringSettings)), disableLiveKey)
	slices.Sort(keys)
	return keys
}

// Set writes one key to the config file and returns the file's new content. Keys
// the file does not mention stay unset, so defaults and environment overrides keep
// applying to them. An empty value unsets a string key.
func Set(key, value string) (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if key == disableLiveKey {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidValue, key)
		}
		cfg.DisableLive = b
	} else {
		field, ok := stringSettings[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
		if key == "log_level" && value != "" && !slices.Contains(LogLevels, value) {
			return nil, fmt.Errorf("%w: log_level must be one of %v", ErrInvalidValue, LogLevels)
		}
		*field(&cfg) = value
	}

	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return &cfg, nil
}
