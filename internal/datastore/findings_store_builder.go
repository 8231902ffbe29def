package datastore

import (
	"iocscan/internal/config"
	"iocscan/internal/errorwrapper"

	"github.com/rs/zerolog"
)

// ParquetFindingsStoreBuilder provides a fluent interface for creating ParquetFindingsStore
type ParquetFindingsStoreBuilder struct {
	config *config.StorageConfig
	logger zerolog.Logger
}

// NewParquetFindingsStoreBuilder creates a new ParquetFindingsStoreBuilder
func NewParquetFindingsStoreBuilder(logger zerolog.Logger) *ParquetFindingsStoreBuilder {
	return &ParquetFindingsStoreBuilder{
		logger: logger.With().Str("component", "ParquetFindingsStore").Logger(),
	}
}

// WithStorageConfig sets the storage configuration
func (b *ParquetFindingsStoreBuilder) WithStorageConfig(cfg *config.StorageConfig) *ParquetFindingsStoreBuilder {
	b.config = cfg
	return b
}

// Build creates a new ParquetFindingsStore instance
func (b *ParquetFindingsStoreBuilder) Build() (*ParquetFindingsStore, error) {
	if b.config == nil {
		return nil, errorwrapper.NewValidationError("config", b.config, "storage config cannot be nil")
	}
	if b.config.ParquetBasePath == "" {
		return nil, errorwrapper.NewValidationError("parquet_base_path", b.config.ParquetBasePath, "parquet base path cannot be empty")
	}

	return &ParquetFindingsStore{
		config: b.config,
		logger: b.logger,
	}, nil
}
