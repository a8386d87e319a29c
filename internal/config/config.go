// Package config loads the server configuration. Fields are pointers so
// a partial JSON file overrides only what it names; the Get* accessors
// supply defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath names the environment variable that points at a config
// file when the -config flag is not given.
const EnvConfigPath = "PERCEPTION_CONFIG"

// ServerConfig is the root configuration for the recording server and
// tools. All fields are optional in the JSON file.
type ServerConfig struct {
	DBPath        *string `json:"db_path,omitempty"`
	Listen        *string `json:"listen,omitempty"`
	MigrationsDir *string `json:"migrations_dir,omitempty"`

	// DecodePolicy controls how snapshot imports treat enum codes the
	// taxonomy does not declare: "strict" or "tolerant".
	DecodePolicy *string `json:"decode_policy,omitempty"`

	// ReportMaxObjects caps how many object summaries a report query
	// pulls into memory.
	ReportMaxObjects *int `json:"report_max_objects,omitempty"`
}

// EmptyServerConfig returns a ServerConfig with all fields unset.
func EmptyServerConfig() *ServerConfig {
	return &ServerConfig{}
}

// LoadServerConfig loads a ServerConfig from a JSON file. Fields
// omitted from the file retain their defaults, so partial configs are
// safe.
func LoadServerConfig(path string) (*ServerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyServerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromEnv loads the file named by PERCEPTION_CONFIG, or returns an
// empty config when the variable is unset.
func LoadFromEnv() (*ServerConfig, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return EmptyServerConfig(), nil
	}
	return LoadServerConfig(path)
}

// Validate checks that the configuration values are valid.
func (c *ServerConfig) Validate() error {
	if c.DecodePolicy != nil {
		switch *c.DecodePolicy {
		case "", "strict", "tolerant":
		default:
			return fmt.Errorf("decode_policy must be strict or tolerant, got %q", *c.DecodePolicy)
		}
	}
	if c.ReportMaxObjects != nil && *c.ReportMaxObjects < 1 {
		return fmt.Errorf("report_max_objects must be positive, got %d", *c.ReportMaxObjects)
	}
	return nil
}

// Merge overlays o's set fields onto c.
func (c *ServerConfig) Merge(o *ServerConfig) {
	if o == nil {
		return
	}
	if o.DBPath != nil {
		c.DBPath = o.DBPath
	}
	if o.Listen != nil {
		c.Listen = o.Listen
	}
	if o.MigrationsDir != nil {
		c.MigrationsDir = o.MigrationsDir
	}
	if o.DecodePolicy != nil {
		c.DecodePolicy = o.DecodePolicy
	}
	if o.ReportMaxObjects != nil {
		c.ReportMaxObjects = o.ReportMaxObjects
	}
}

// GetDBPath returns the db_path value or the default.
func (c *ServerConfig) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "perception_data.db"
	}
	return *c.DBPath
}

// GetListen returns the listen value or the default.
func (c *ServerConfig) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetMigrationsDir returns the migrations_dir value or the default.
func (c *ServerConfig) GetMigrationsDir() string {
	if c.MigrationsDir == nil || *c.MigrationsDir == "" {
		return "migrations"
	}
	return *c.MigrationsDir
}

// GetDecodePolicy returns the decode_policy value or the default.
func (c *ServerConfig) GetDecodePolicy() string {
	if c.DecodePolicy == nil || *c.DecodePolicy == "" {
		return "strict"
	}
	return *c.DecodePolicy
}

// GetReportMaxObjects returns the report_max_objects value or the
// default.
func (c *ServerConfig) GetReportMaxObjects() int {
	if c.ReportMaxObjects == nil {
		return 10000
	}
	return *c.ReportMaxObjects
}
