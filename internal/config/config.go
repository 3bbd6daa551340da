package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/autoaudit/internal/common"

	"gopkg.in/yaml.v3"
)

const (
	// Backend Defaults
	DefaultBackendBaseURL        = "http://localhost:8000"
	DefaultBackendTimeoutSecs    = 30
	DefaultRescanTimeoutSecs     = 120
	DefaultBackendInsecureVerify = false

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Scheduler Defaults
	DefaultSchedulerCycleMinutes = 60
	DefaultSchedulerSQLiteDBPath = "database/scheduler/rescan_history.db"
	DefaultSchedulerMaxPerCycle  = 25

	// Storage Defaults
	DefaultStorageParquetBasePath  = "database"
	DefaultStorageCompressionCodec = "zstd"

	// Limiter Defaults
	DefaultLimiterSystemMemThreshold = 0.9
	DefaultLimiterMaxGoroutines      = 5000
)

// GlobalConfig aggregates all per-concern configuration sections.
type GlobalConfig struct {
	BackendConfig      BackendConfig      `json:"backend_config,omitempty" yaml:"backend_config,omitempty"`
	LimiterConfig      LimiterConfig      `json:"limiter_config,omitempty" yaml:"limiter_config,omitempty"`
	LogConfig          LogConfig          `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	Mode               string             `json:"mode,omitempty" yaml:"mode,omitempty" validate:"omitempty,mode"`
	NotificationConfig NotificationConfig `json:"notification_config,omitempty" yaml:"notification_config,omitempty"`
	SchedulerConfig    SchedulerConfig    `json:"scheduler_config,omitempty" yaml:"scheduler_config,omitempty"`
	StorageConfig      StorageConfig      `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
}

// NewDefaultGlobalConfig creates a GlobalConfig populated with defaults.
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		BackendConfig:      NewDefaultBackendConfig(),
		LimiterConfig:      NewDefaultLimiterConfig(),
		LogConfig:          NewDefaultLogConfig(),
		Mode:               "oneshot",
		NotificationConfig: NewDefaultNotificationConfig(),
		SchedulerConfig:    NewDefaultSchedulerConfig(),
		StorageConfig:      NewDefaultStorageConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// It determines the config file path using GetConfigPath and supports both
// JSON and YAML formats. YAML is preferred if the extension is .yaml or .yml.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		// No config file found anywhere; run on defaults.
		return cfg, nil
	}

	if !fileExists(filePath) {
		return nil, common.NewError("config file does not exist: %s", filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to read config file '%s'", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, common.WrapErrorf(err, "failed to parse YAML config '%s'", filePath)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, common.WrapErrorf(err, "failed to parse JSON config '%s'", filePath)
		}
	default:
		// Try YAML first, then JSON.
		if yamlErr := yaml.Unmarshal(data, cfg); yamlErr != nil {
			if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
				return nil, common.NewError("failed to parse config '%s' as YAML (%v) or JSON (%v)", filePath, yamlErr, jsonErr)
			}
		}
	}

	return cfg, nil
}
