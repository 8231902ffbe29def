package config

const (
	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Indicator Defaults
	DefaultMaxRedirectDepth        = 5
	DefaultUnshortenTimeoutSeconds = 5

	// Storage Defaults
	DefaultStorageParquetBasePath  = "database"
	DefaultStorageCompressionCodec = "zstd"

	// Extractor Defaults
	DefaultExtractorBasePath = "."
)
