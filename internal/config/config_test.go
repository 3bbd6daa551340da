package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()

	assert.Equal(t, "oneshot", cfg.Mode)
	assert.Equal(t, DefaultBackendBaseURL, cfg.BackendConfig.BaseURL)
	assert.Equal(t, DefaultRescanTimeoutSecs, cfg.BackendConfig.RescanTimeoutSeconds)
	assert.Equal(t, DefaultSchedulerCycleMinutes, cfg.SchedulerConfig.CycleMinutes)
	assert.Equal(t, DefaultSchedulerSQLiteDBPath, cfg.SchedulerConfig.SQLiteDBPath)
	assert.Equal(t, DefaultStorageParquetBasePath, cfg.StorageConfig.ParquetBasePath)
	assert.True(t, cfg.NotificationConfig.NotifyOnFailure)
}

func TestValidateDefaultConfig(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.Mode = "continuous"
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateRejectsShortRescanTimeout(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.BackendConfig.RescanTimeoutSeconds = 30
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RescanTimeoutSeconds")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.LogConfig.LogLevel = "verbose"
	assert.Error(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
mode: automated
backend_config:
  base_url: "https://audit.example.com"
  api_token: "secret"
  rescan_timeout_seconds: 180
scheduler_config:
  cycle_minutes: 30
  max_rescans_per_cycle: 10
notification_config:
  notify_on_success: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "automated", cfg.Mode)
	assert.Equal(t, "https://audit.example.com", cfg.BackendConfig.BaseURL)
	assert.Equal(t, "secret", cfg.BackendConfig.APIToken)
	assert.Equal(t, 180, cfg.BackendConfig.RescanTimeoutSeconds)
	assert.Equal(t, 30, cfg.SchedulerConfig.CycleMinutes)
	assert.Equal(t, 10, cfg.SchedulerConfig.MaxRescansPerCycle)
	assert.False(t, cfg.NotificationConfig.NotifyOnSuccess)

	// Unset sections keep their defaults.
	assert.Equal(t, DefaultStorageParquetBasePath, cfg.StorageConfig.ParquetBasePath)
}

func TestLoadGlobalConfigJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"mode": "oneshot", "backend_config": {"base_url": "http://localhost:9000"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.BackendConfig.BaseURL)
}

func TestLoadGlobalConfigMissingFile(t *testing.T) {
	_, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetConfigPathPrefersFlag(t *testing.T) {
	assert.Equal(t, "/some/path.yaml", GetConfigPath("/some/path.yaml"))
}
