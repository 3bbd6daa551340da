package config

// StorageConfig defines configuration for the local check archive
type StorageConfig struct {
	ParquetBasePath  string `json:"parquet_base_path,omitempty" yaml:"parquet_base_path,omitempty" validate:"required"`
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		ParquetBasePath:  DefaultStorageParquetBasePath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}
