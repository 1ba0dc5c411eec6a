// Package config provides unified configuration for the Plantaxis server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the Plantaxis server and tools.
type Config struct {
	// DataDir is the directory holding the dashboard's CSV datasets
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// HTTP configuration
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Storage configuration (where the datasets come from)
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Explorer configuration (ad-hoc SQL over the loaded datasets)
	Explorer ExplorerConfig `json:"explorer" yaml:"explorer"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	// Addr is the HTTP listen address
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout is the HTTP read timeout
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the HTTP write timeout
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the HTTP idle timeout
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// StorageConfig holds dataset source configuration.
type StorageConfig struct {
	// Type is the dataset source: local, s3
	Type string `json:"type" yaml:"type"`

	// SyncDir is where S3 datasets are downloaded before loading.
	// Defaults to DataDir.
	SyncDir string `json:"sync_dir" yaml:"sync_dir"`

	// S3 configuration (for s3 type)
	S3 S3Config `json:"s3" yaml:"s3"`
}

// S3Config holds S3 dataset source configuration.
type S3Config struct {
	// Bucket is the S3 bucket name
	Bucket string `json:"bucket" yaml:"bucket"`

	// Region is the AWS region
	Region string `json:"region" yaml:"region"`

	// Endpoint is the S3 endpoint (for S3-compatible storage)
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Prefix is the key prefix the dataset files live under
	Prefix string `json:"prefix" yaml:"prefix"`
}

// ExplorerConfig holds ad-hoc SQL explorer configuration.
type ExplorerConfig struct {
	// Enabled controls whether the /v1/sql endpoint is served
	Enabled bool `json:"enabled" yaml:"enabled"`

	// MaxRows caps the rows returned by a single explorer query
	MaxRows int `json:"max_rows" yaml:"max_rows"`

	// QueryTimeout bounds a single explorer query
	QueryTimeout time.Duration `json:"query_timeout" yaml:"query_timeout"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		HTTP: HTTPConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Storage: StorageConfig{
			Type: "local",
		},
		Explorer: ExplorerConfig{
			Enabled:      true,
			MaxRows:      1000,
			QueryTimeout: 10 * time.Second,
		},
	}
}

// Resolve resolves relative paths and sets defaults based on DataDir.
func (c *Config) Resolve() {
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if c.Storage.SyncDir == "" {
		c.Storage.SyncDir = c.DataDir
	}
	if c.Explorer.MaxRows <= 0 {
		c.Explorer.MaxRows = 1000
	}
	if c.Explorer.QueryTimeout <= 0 {
		c.Explorer.QueryTimeout = 10 * time.Second
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Storage.Type != "local" && c.Storage.Type != "s3" {
		return fmt.Errorf("invalid storage type: %s (must be local or s3)", c.Storage.Type)
	}

	if c.Storage.Type == "s3" && c.Storage.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when storage type is s3")
	}

	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}

	return nil
}

// PlantsPath returns the path to the required plants dataset.
func (c *Config) PlantsPath() string {
	return filepath.Join(c.DataDir, "operating_plants.csv")
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the PLANTAXIS_ prefix.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("PLANTAXIS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PLANTAXIS_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("PLANTAXIS_STORAGE_TYPE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("PLANTAXIS_STORAGE_SYNC_DIR"); v != "" {
		cfg.Storage.SyncDir = v
	}
	if v := os.Getenv("PLANTAXIS_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("PLANTAXIS_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
	if v := os.Getenv("PLANTAXIS_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("PLANTAXIS_S3_PREFIX"); v != "" {
		cfg.Storage.S3.Prefix = v
	}
	if v := os.Getenv("PLANTAXIS_EXPLORER_ENABLED"); v != "" {
		cfg.Explorer.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("PLANTAXIS_EXPLORER_MAX_ROWS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Explorer.MaxRows)
	}
	if v := os.Getenv("PLANTAXIS_EXPLORER_QUERY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Explorer.QueryTimeout = d
		}
	}
}

// EnsureDirectories creates all required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.Storage.SyncDir}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
