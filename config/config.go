// Package config loads and saves user settings from config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/afterthought-core/paths"
)

const (
	// DefaultDatabaseName is the database created in the documents directory
	// on first launch.
	DefaultDatabaseName = "Afterthought"

	// DatabaseVersion is the bundle schema version written by this build.
	DatabaseVersion uint32 = 1
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the user settings.
type Config struct {
	Debug               bool   `yaml:"debug,omitempty"`                 // Debug-level logging
	DefaultDatabaseName string `yaml:"default_database_name,omitempty"` // Name of the default database bundle
	DatabaseVersion     uint32 `yaml:"database_version,omitempty"`      // Schema version for new bundles
	RestoreSession      *bool  `yaml:"restore_session,omitempty"`       // Reopen last session's databases (default true)

	mu       sync.RWMutex
	filePath string
}

// Default returns a config with every setting at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset settings. Only called before the config is shared.
func (c *Config) applyDefaults() {
	if c.DefaultDatabaseName == "" {
		c.DefaultDatabaseName = DefaultDatabaseName
	}
	if c.DatabaseVersion == 0 {
		c.DatabaseVersion = DatabaseVersion
	}
	if c.RestoreSession == nil {
		restore := true
		c.RestoreSession = &restore
	}
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name := c.DefaultDatabaseName
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: default_database_name is empty", ErrInvalid)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: default_database_name %q must be a plain directory name", ErrInvalid, name)
	}
	if c.DatabaseVersion == 0 {
		return fmt.Errorf("%w: database_version must be positive", ErrInvalid)
	}
	return nil
}

// Save writes the config to its file.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filePath == "" {
		path, err := paths.ConfigFilePath()
		if err != nil {
			return err
		}
		c.filePath = path
	}

	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.filePath, data, 0644)
}

// SetFilePath sets the config file path (for testing).
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

// GetDebug returns whether debug logging is enabled.
func (c *Config) GetDebug() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Debug
}

// SetDebug enables or disables debug logging.
func (c *Config) SetDebug(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Debug = enabled
}

// GetDefaultDatabaseName returns the default database name.
func (c *Config) GetDefaultDatabaseName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultDatabaseName
}

// GetDatabaseVersion returns the schema version for new bundles.
func (c *Config) GetDatabaseVersion() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DatabaseVersion
}

// ShouldRestoreSession reports whether the last session should be reopened.
func (c *Config) ShouldRestoreSession() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RestoreSession == nil || *c.RestoreSession
}

// SetRestoreSession sets whether the last session should be reopened.
func (c *Config) SetRestoreSession(restore bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RestoreSession = &restore
}
