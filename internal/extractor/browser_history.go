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

// browserHistoryRootPath locates the browser history database relative to
// the base folder.
const browserHistoryRootPath = "private/var/mobile/Library/Safari/History.db"

// BrowserHistory extracts visited URLs from the device browser history
// database. Every visited URL is offered as a domain-matching candidate.
type BrowserHistory struct {
	basePath string
	logger   zerolog.Logger
}

// NewBrowserHistory creates a BrowserHistory module rooted at basePath
func NewBrowserHistory(basePath string, logger zerolog.Logger) *BrowserHistory {
	return &BrowserHistory{
		basePath: basePath,
		logger:   logger.With().Str("module", "BrowserHistory").Logger(),
	}
}

// Name implements Module
func (b *BrowserHistory) Name() string {
	return "browser_history"
}

// Run implements Module
func (b *BrowserHistory) Run(ctx context.Context) ([]Record, error) {
	dbPath := filepath.Join(b.basePath, browserHistoryRootPath)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, errorwrapper.WrapError(err, "browser history database not found")
	}
	b.logger.Info().Str("path", dbPath).Msg("Found browser history database")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to open browser history database")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT
			history_items.url,
			history_visits.visit_time
			FROM history_items
			JOIN history_visits ON history_visits.history_item = history_items.id;
	`)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to query browser history")
	}
	defer rows.Close()

	var results []Record
	for rows.Next() {
		var visitURL sql.NullString
		var visitTime sql.NullFloat64
		if err := rows.Scan(&visitURL, &visitTime); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to scan browser history row")
		}
		if visitURL.String == "" {
			continue
		}

		results = append(results, Record{
			Timestamp: macTimeToTime(visitTime.Float64),
			Module:    b.Name(),
			Event:     "visit",
			Data:      fmt.Sprintf("Visited %s", visitURL.String),
			Candidates: Candidates{
				URLs: []string{visitURL.String},
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to iterate browser history rows")
	}

	b.logger.Info().Int("count", len(results)).Msg("Extracted browser history records")
	return results, nil
}
