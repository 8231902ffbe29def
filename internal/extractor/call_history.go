package extractor

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"iocscan/internal/errorwrapper"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// callHistoryRootPath locates the call history database relative to the
// base folder.
const callHistoryRootPath = "private/var/mobile/Library/CallHistoryDB/CallHistory.storedata"

// CallHistory extracts phone call details from the device call history
// database. Context records only; call entries are not matched against
// indicators.
type CallHistory struct {
	basePath string
	logger   zerolog.Logger
}

// NewCallHistory creates a CallHistory module rooted at basePath
func NewCallHistory(basePath string, logger zerolog.Logger) *CallHistory {
	return &CallHistory{
		basePath: basePath,
		logger:   logger.With().Str("module", "CallHistory").Logger(),
	}
}

// Name implements Module
func (c *CallHistory) Name() string {
	return "call_history"
}

// Run implements Module
func (c *CallHistory) Run(ctx context.Context) ([]Record, error) {
	dbPath := filepath.Join(c.basePath, callHistoryRootPath)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, errorwrapper.WrapError(err, "call history database not found")
	}
	c.logger.Info().Str("path", dbPath).Msg("Found call history database")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open call history database")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT
			ZDATE, ZDURATION, ZLOCATION, ZADDRESS, ZSERVICE_PROVIDER
			FROM ZCALLRECORD;
	`)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to query call records")
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var date, duration sql.NullFloat64
		var location, address, provider sql.NullString
		if err := rows.Scan(&date, &duration, &location, &address, &provider); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to scan call record")
		}

		results = append(results, Record{
			Timestamp: macTimeToTime(date.Float64),
			Module:    c.Name(),
			Event:     "call",
			Data: fmt.Sprintf("From %s using %s during %.0f seconds",
				address.String, provider.String, duration.Float64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to iterate call records")
	}

	c.logger.Info().Int("count", len(results)).Msg("Extracted call records")
	return results, nil
}
