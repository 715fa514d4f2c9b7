// Package config provides configuration loading and validation for the
// service. Settings come from an optional JSON file, environment variables,
// and CLI flags, merged in that order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nishchaysingla/Codebase-project/internal/classify"
	"github.com/nishchaysingla/Codebase-project/internal/llm"
)

// Config represents the service configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or come from the
// environment.
type Config struct {
	Port          int    `json:"port,omitempty"`             // HTTP listen port
	WorkspaceRoot string `json:"workspace_root,omitempty"`   // Root directory for job workspaces
	DatabaseURL   string `json:"database_url,omitempty"`     // PostgreSQL URL; empty selects the in-memory job store
	APIKey        string `json:"api_key,omitempty"`          // Gemini API key
	Model         string `json:"model,omitempty"`            // Gemini model name
	MaxFileSizeKB int64  `json:"max_file_size_kb,omitempty"` // Per-file size cap for analysis
	Workers       int    `json:"workers,omitempty"`          // Per-file explainer concurrency
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Port:          8080,
		WorkspaceRoot: filepath.Join(os.TempDir(), "codedocs"),
		Model:         llm.DefaultModel,
		MaxFileSizeKB: classify.DefaultMaxFileSize / 1024,
		Workers:       4,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills empty fields from environment variables.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.WorkspaceRoot == "" {
		c.WorkspaceRoot = os.Getenv("CODEDOCS_WORKSPACE")
	}
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.WorkspaceRoot == "" {
		result.WorkspaceRoot = defaults.WorkspaceRoot
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.MaxFileSizeKB == 0 {
		result.MaxFileSizeKB = defaults.MaxFileSizeKB
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	return result
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("config error: 'workspace_root' must not be empty")
	}
	if c.MaxFileSizeKB < 0 {
		return fmt.Errorf("config error: 'max_file_size_kb' must be non-negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	return nil
}

// Rules builds the classifier rules implied by this configuration.
func (c *Config) Rules() classify.Rules {
	rules := classify.DefaultRules()
	if c.MaxFileSizeKB > 0 {
		rules.MaxFileSize = c.MaxFileSizeKB * 1024
	}
	return rules
}
