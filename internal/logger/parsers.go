package logger

import (
	"strings"

	"github.com/aleister1102/autoaudit/internal/common"
	"github.com/aleister1102/autoaudit/internal/config"

	"github.com/rs/zerolog"
)

// ParseLevel parses a string log level to zerolog.Level
func ParseLevel(levelStr string) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return zerolog.InfoLevel, common.WrapError(err, "invalid log level")
	}
	return level, nil
}

// ParseFormat parses a string format to LogFormat
func ParseFormat(formatStr string) LogFormat {
	switch strings.ToLower(formatStr) {
	case "json":
		return FormatJSON
	case "console":
		return FormatConsole
	case "text":
		return FormatText
	default:
		return FormatConsole
	}
}

// ConvertConfig converts application config to logger config
func ConvertConfig(cfg config.LogConfig) LoggerConfig {
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel // fallback to default
	}

	maxSize := cfg.MaxLogSizeMB
	if maxSize <= 0 {
		maxSize = 100
	}
	maxBackups := cfg.MaxLogBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	return LoggerConfig{
		Level:         level,
		Format:        ParseFormat(cfg.LogFormat),
		EnableConsole: true,
		EnableFile:    cfg.LogFile != "",
		FilePath:      cfg.LogFile,
		MaxSizeMB:     maxSize,
		MaxBackups:    maxBackups,
	}
}
