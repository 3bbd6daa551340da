package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory creates log writers based on format
type WriterFactory struct{}

// NewWriterFactory creates a new writer factory
func NewWriterFactory() *WriterFactory {
	return &WriterFactory{}
}

// CreateConsoleWriter creates a console writer
func (wf *WriterFactory) CreateConsoleWriter(format LogFormat) io.Writer {
	if format == FormatJSON {
		return os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    format == FormatText,
	}
}

// CreateFileWriter creates a file writer with rotation
func (wf *WriterFactory) CreateFileWriter(config LoggerConfig) io.Writer {
	finalPath := config.FilePath

	// Ensure directory exists; fall back to the raw path on failure
	if err := os.MkdirAll(filepath.Dir(finalPath), 0755); err != nil {
		finalPath = config.FilePath
	}

	lumberjackLogger := &lumberjack.Logger{
		Filename:   finalPath,
		MaxSize:    config.MaxSizeMB,
		LocalTime:  true,
		MaxBackups: config.MaxBackups,
	}

	if config.Format == FormatConsole || config.Format == FormatText {
		return zerolog.ConsoleWriter{
			Out:        lumberjackLogger,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	return lumberjackLogger
}
