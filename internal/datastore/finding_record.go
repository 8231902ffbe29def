// Package datastore persists scan findings to Parquet files, one file per
// scan session.
package datastore

import (
	"time"

	"iocscan/internal/indicators"
)

// FindingRecord is the Parquet schema for a persisted match finding
type FindingRecord struct {
	SessionID     string `parquet:"session_id"`
	Module        string `parquet:"module,optional"`
	Kind          string `parquet:"indicator_kind"`
	MatchType     string `parquet:"match_type"`
	MatchedValue  string `parquet:"matched_value"`
	OriginalValue string `parquet:"original_value"`
	Indicator     string `parquet:"indicator"`
	Detail        string `parquet:"detail,optional"`
	// TimestampMillis is the finding time in Unix epoch milliseconds.
	TimestampMillis int64 `parquet:"timestamp_ms"`
}

// TransformFinding converts a match finding into its Parquet record form
func TransformFinding(sessionID, module string, finding indicators.MatchFinding, foundAt time.Time) FindingRecord {
	return FindingRecord{
		SessionID:       sessionID,
		Module:          module,
		Kind:            string(finding.Kind),
		MatchType:       string(finding.Type),
		MatchedValue:    finding.MatchedValue,
		OriginalValue:   finding.OriginalValue,
		Indicator:       finding.Indicator,
		Detail:          finding.Detail,
		TimestampMillis: foundAt.UnixMilli(),
	}
}
