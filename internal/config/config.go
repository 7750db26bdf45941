// Package config loads empsync's runtime configuration from a YAML file,
// layered with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DBConfig holds connection parameters for one relational source or target.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// FileSourceConfig holds the delimited-file source settings.
type FileSourceConfig struct {
	Path          string   `yaml:"path"`
	FallbackPaths []string `yaml:"fallback_paths"`
}

// Config holds all empsync configuration.
type Config struct {
	File FileSourceConfig `yaml:"file"`

	MySQLSource    DBConfig `yaml:"mysql_source"`
	PostgresSource DBConfig `yaml:"postgres_source"`
	Target         DBConfig `yaml:"target"`

	// IncrementalWindowDays bounds extraction to recently-updated rows when
	// the source provides a last-updated column. Zero disables the window
	// and forces a full snapshot.
	IncrementalWindowDays int `yaml:"incremental_window_days"`

	// LoadBatchSize is the number of row operations committed per batch by
	// the loader.
	LoadBatchSize int `yaml:"load_batch_size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		File: FileSourceConfig{
			Path: "",
			FallbackPaths: []string{
				"./data/data.csv",
				"/data/data.csv",
				"/app/data/data.csv",
			},
		},
		MySQLSource: DBConfig{
			Host:     "localhost",
			Port:     3306,
			Database: "employes",
		},
		PostgresSource: DBConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "employes",
		},
		Target: DBConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "unified",
		},
		IncrementalWindowDays: 30,
		LoadBatchSize:         10,
	}
}

// Load loads configuration from a YAML file. Missing files are not an
// error — defaults plus environment overrides are returned instead.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		cfg.applyEnvOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides, matching the
// original system's per-source connection configuration.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FILE_PATH"); v != "" {
		c.File.Path = v
	}

	applyDBOverrides(&c.MySQLSource, "MYSQL_SOURCE")
	applyDBOverrides(&c.PostgresSource, "POSTGRES_SOURCE")
	applyDBOverrides(&c.Target, "POSTGRES")

	if v := os.Getenv("EMPSYNC_INCREMENTAL_WINDOW_DAYS"); v != "" {
		if n, err := parseIntEnv(v); err == nil {
			c.IncrementalWindowDays = n
		}
	}
	if v := os.Getenv("EMPSYNC_LOAD_BATCH_SIZE"); v != "" {
		if n, err := parseIntEnv(v); err == nil && n > 0 {
			c.LoadBatchSize = n
		}
	}
}

func applyDBOverrides(cfg *DBConfig, prefix string) {
	if v := os.Getenv(prefix + "_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv(prefix + "_PORT"); v != "" {
		if n, err := parseIntEnv(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv(prefix + "_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv(prefix + "_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv(prefix + "_PASSWORD"); v != "" {
		cfg.Password = v
	}
}

func parseIntEnv(v string) (int, error) {
	var n int
	_, err := fmt.Sscanf(v, "%d", &n)
	return n, err
}
