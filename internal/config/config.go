// Package config loads the optional dzx configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerAddress  = "127.0.0.1:8090"
	DefaultMaxUploadBytes = 16 << 20
	DefaultCatalogName    = "catalog.db"
)

// Config mirrors ~/.config/dzx/config.yaml. Pointer fields distinguish
// "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Catalog
	CatalogPath  string `yaml:"catalog_path"`
	IndexWorkers *int   `yaml:"index_workers"`

	// Server
	ServerAddress  string `yaml:"server_address"`
	MaxUploadBytes *int64 `yaml:"max_upload_bytes"`
}

// Path returns the default config file location, or "" when the user config
// directory cannot be determined.
func Path() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dzx", "config.yaml")
}

// DefaultCatalogPath places the catalog under the user cache directory.
func DefaultCatalogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DefaultCatalogName
	}
	return filepath.Join(dir, "dzx", DefaultCatalogName)
}

// Load reads the file at path. A missing file yields a zero Config; a file
// that does not parse is an error.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no command could use.
func (c Config) Validate() error {
	if c.IndexWorkers != nil && *c.IndexWorkers < 1 {
		return fmt.Errorf("index_workers must be at least 1, got %d", *c.IndexWorkers)
	}
	if c.MaxUploadBytes != nil && *c.MaxUploadBytes < 1 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", *c.MaxUploadBytes)
	}
	return nil
}

// Workers returns the configured index worker count or def.
func (c Config) Workers(def int) int {
	if c.IndexWorkers != nil {
		return *c.IndexWorkers
	}
	return def
}

// UploadLimit returns the configured upload limit or DefaultMaxUploadBytes.
func (c Config) UploadLimit() int64 {
	if c.MaxUploadBytes != nil {
		return *c.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}
