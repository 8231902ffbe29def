package config

// StorageConfig defines configuration for findings storage
type StorageConfig struct {
	// Enabled controls whether findings are persisted to Parquet files.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// ParquetBasePath is the base directory for Parquet output.
	ParquetBasePath string `json:"parquet_base_path,omitempty" yaml:"parquet_base_path,omitempty"`
	// CompressionCodec selects the Parquet compression codec.
	CompressionCodec string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,oneof=zstd snappy gzip none"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Enabled:          false,
		ParquetBasePath:  DefaultStorageParquetBasePath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}
