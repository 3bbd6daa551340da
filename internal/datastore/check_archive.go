package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aleister1102/autoaudit/internal/common"
	"github.com/aleister1102/autoaudit/internal/config"
	"github.com/aleister1102/autoaudit/internal/models"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// CheckArchive persists settled rescan results to per-URL Parquet files
// under <base>/checks/. Appends rewrite the whole file: archive files stay
// small and the rewrite keeps a single consistent row group per file.
type CheckArchive struct {
	config *config.StorageConfig
	logger zerolog.Logger
	mu     sync.Mutex
}

// CheckArchiveBuilder provides a fluent interface for creating CheckArchive.
type CheckArchiveBuilder struct {
	config *config.StorageConfig
	logger zerolog.Logger
}

// NewCheckArchiveBuilder creates a new CheckArchiveBuilder.
func NewCheckArchiveBuilder(logger zerolog.Logger) *CheckArchiveBuilder {
	return &CheckArchiveBuilder{
		logger: logger.With().Str("module", "CheckArchive").Logger(),
	}
}

// WithStorageConfig sets the storage configuration.
func (b *CheckArchiveBuilder) WithStorageConfig(cfg *config.StorageConfig) *CheckArchiveBuilder {
	b.config = cfg
	return b
}

// Build creates a new CheckArchive instance.
func (b *CheckArchiveBuilder) Build() (*CheckArchive, error) {
	if b.config == nil {
		return nil, common.NewValidationError("config", b.config, "storage config cannot be nil")
	}
	if b.config.ParquetBasePath == "" {
		return nil, common.NewValidationError("parquet_base_path", b.config.ParquetBasePath, "ParquetBasePath is not configured")
	}
	return &CheckArchive{
		config: b.config,
		logger: b.logger,
	}, nil
}

// NewCheckArchive creates a new CheckArchive using the builder pattern.
func NewCheckArchive(cfg *config.StorageConfig, logger zerolog.Logger) (*CheckArchive, error) {
	return NewCheckArchiveBuilder(logger).
		WithStorageConfig(cfg).
		Build()
}

// ArchiveRescan appends one settled rescan result to the URL's archive file.
func (ca *CheckArchive) ArchiveRescan(url models.MonitoredURL, result models.RescanResult) error {
	record := TransformRescan(url, result, time.Now())
	return ca.Append(record)
}

// Append writes a record to its URL's archive file.
func (ca *CheckArchive) Append(record ParquetCheckRecord) error {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	filePath, err := ca.prepareArchiveFile(record.URLID)
	if err != nil {
		return err
	}

	existing, err := ca.readFile(filePath)
	if err != nil {
		return err
	}
	existing = append(existing, record)

	if err := ca.writeFile(filePath, existing); err != nil {
		return err
	}

	ca.logger.Debug().
		Str("file_path", filePath).
		Int64("url_id", record.URLID).
		Int("records", len(existing)).
		Msg("Archived check record")
	return nil
}

// ReadByURLID returns all archived records for one URL, in append order.
func (ca *CheckArchive) ReadByURLID(urlID int64) ([]ParquetCheckRecord, error) {
	ca.mu.Lock()
	defer ca.mu.Unlock()
	return ca.readFile(ca.archiveFilePath(urlID))
}

// ReadAll returns every archived record across all URLs.
func (ca *CheckArchive) ReadAll() ([]ParquetCheckRecord, error) {
	ca.mu.Lock()
	defer ca.mu.Unlock()

	pattern := filepath.Join(ca.checksDir(), "url_*.parquet")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, common.WrapError(err, "failed to glob archive files")
	}

	var all []ParquetCheckRecord
	for _, path := range paths {
		records, err := ca.readFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

func (ca *CheckArchive) checksDir() string {
	return filepath.Join(ca.config.ParquetBasePath, "checks")
}

func (ca *CheckArchive) archiveFilePath(urlID int64) string {
	return filepath.Join(ca.checksDir(), fmt.Sprintf("url_%d.parquet", urlID))
}

func (ca *CheckArchive) prepareArchiveFile(urlID int64) (string, error) {
	dir := ca.checksDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", common.WrapError(err, "failed to create archive directory: "+dir)
	}
	return ca.archiveFilePath(urlID), nil
}

// readFile reads all records from one archive file. A missing file yields
// an empty slice, not an error.
func (ca *CheckArchive) readFile(filePath string) ([]ParquetCheckRecord, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, nil
	}

	records, err := parquet.ReadFile[ParquetCheckRecord](filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to read parquet archive: "+filePath)
	}
	return records, nil
}

// writeFile rewrites one archive file atomically via a temp file rename.
func (ca *CheckArchive) writeFile(filePath string, records []ParquetCheckRecord) error {
	tmpPath := filePath + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return common.WrapError(err, "failed to create archive file: "+tmpPath)
	}

	writer := parquet.NewGenericWriter[ParquetCheckRecord](file, ca.compressionOption())
	if _, err := writer.Write(records); err != nil {
		writer.Close()
		file.Close()
		os.Remove(tmpPath)
		return common.WrapError(err, "failed to write archive records")
	}
	if err := writer.Close(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return common.WrapError(err, "failed to close parquet writer")
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return common.WrapError(err, "failed to close archive file")
	}

	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return common.WrapError(err, "failed to replace archive file")
	}
	return nil
}

// compressionOption returns the writer option for the configured codec.
func (ca *CheckArchive) compressionOption() parquet.WriterOption {
	switch ca.config.CompressionCodec {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}
