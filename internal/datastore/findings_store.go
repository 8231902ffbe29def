package datastore

import (
	"os"
	"path/filepath"

	"iocscan/internal/config"
	"iocscan/internal/errorwrapper"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

// findingsSubDir is the directory under the Parquet base path that holds
// per-session finding files.
const findingsSubDir = "findings"

// ParquetFindingsStore writes the findings of a scan session to a Parquet
// file under <base>/findings/<session>.parquet.
type ParquetFindingsStore struct {
	config *config.StorageConfig
	logger zerolog.Logger
}

// StoreFindings writes all records of one session, replacing any previous
// file for that session.
func (ps *ParquetFindingsStore) StoreFindings(sessionID string, records []FindingRecord) error {
	if sessionID == "" {
		return errorwrapper.NewValidationError("sessionID", sessionID, "session ID cannot be empty")
	}

	filePath, err := ps.sessionFilePath(sessionID)
	if err != nil {
		return err
	}

	ps.logger.Info().
		Str("file_path", filePath).
		Int("finding_count", len(records)).
		Msg("Writing findings to Parquet file")

	file, err := os.Create(filePath)
	if err != nil {
		return errorwrapper.WrapError(err, "failed to create parquet file: "+filePath)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[FindingRecord](file, ps.getCompressionOption())
	if _, err := writer.Write(records); err != nil {
		writer.Close()
		return errorwrapper.WrapError(err, "failed to write findings to parquet file")
	}
	if err := writer.Close(); err != nil {
		return errorwrapper.WrapError(err, "failed to finalize parquet file")
	}

	return nil
}

// LoadFindings reads back all records previously stored for a session
func (ps *ParquetFindingsStore) LoadFindings(sessionID string) ([]FindingRecord, error) {
	filePath, err := ps.sessionFilePath(sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(filePath); err != nil {
		return nil, errorwrapper.WrapError(errorwrapper.ErrNotFound, "no findings stored for session "+sessionID)
	}

	records, err := parquet.ReadFile[FindingRecord](filePath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to read parquet file: "+filePath)
	}
	return records, nil
}

// sessionFilePath builds the per-session file path, creating the findings
// directory if needed.
func (ps *ParquetFindingsStore) sessionFilePath(sessionID string) (string, error) {
	dir := filepath.Join(ps.config.ParquetBasePath, findingsSubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errorwrapper.WrapError(err, "failed to create findings directory: "+dir)
	}
	return filepath.Join(dir, sessionID+".parquet"), nil
}

// getCompressionOption returns the compression option based on configuration
func (ps *ParquetFindingsStore) getCompressionOption() parquet.WriterOption {
	switch ps.config.CompressionCodec {
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
