package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"port": 9090,
		"workspace_root": "/srv/codedocs",
		"model": "gemini-1.5-pro",
		"max_file_size_kb": 200,
		"workers": 8
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/codedocs", cfg.WorkspaceRoot)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, int64(200), cfg.MaxFileSizeKB)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("CODEDOCS_WORKSPACE", "/env/workspace")

	var cfg Config
	cfg.ApplyEnv()

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "/env/workspace", cfg.WorkspaceRoot)
}

func TestApplyEnv_FileValuesWin(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := Config{APIKey: "file-key"}
	cfg.ApplyEnv()

	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Port: 9090}
	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, 9090, merged.Port)
	assert.Equal(t, Default().WorkspaceRoot, merged.WorkspaceRoot)
	assert.Equal(t, Default().Model, merged.Model)
	assert.Equal(t, Default().MaxFileSizeKB, merged.MaxFileSizeKB)
	assert.Equal(t, Default().Workers, merged.Workers)
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadPort(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyWorkspace(t *testing.T) {
	cfg := Default()
	cfg.WorkspaceRoot = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "workspace_root")
}

func TestRules_AppliesSizeCap(t *testing.T) {
	cfg := Default()
	cfg.MaxFileSizeKB = 5

	rules := cfg.Rules()
	assert.Equal(t, int64(5*1024), rules.MaxFileSize)
}

func TestRules_ZeroKeepsDefaultCap(t *testing.T) {
	var cfg Config
	rules := cfg.Rules()
	assert.Equal(t, int64(100*1024), rules.MaxFileSize)
}
