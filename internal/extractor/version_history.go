package extractor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"iocscan/internal/errorwrapper"

	"github.com/rs/zerolog"
)

// analyticsJournalPattern locates OS analytics journal files relative to the
// base folder.
const analyticsJournalPattern = "private/var/db/analyticsd/Analytics-Journal-*.ips"

// analyticsJournalTimeLayout matches timestamps like
// "2021-01-02 11:22:33.00 +0100" found on the journal's first line.
const analyticsJournalTimeLayout = "2006-01-02 15:04:05.999999 -0700"

// VersionHistory extracts the OS update history from analytics journal log
// files. The records carry no matchable candidates; they provide timeline
// context alongside the matching modules.
type VersionHistory struct {
	basePath string
	logger   zerolog.Logger
}

// NewVersionHistory creates a VersionHistory module rooted at basePath
func NewVersionHistory(basePath string, logger zerolog.Logger) *VersionHistory {
	return &VersionHistory{
		basePath: basePath,
		logger:   logger.With().Str("module", "VersionHistory").Logger(),
	}
}

// Name implements Module
func (v *VersionHistory) Name() string {
	return "version_history"
}

// journalLine is the first JSON line of an analytics journal file
type journalLine struct {
	Timestamp string `json:"timestamp"`
	OSVersion string `json:"os_version"`
}

// Run implements Module
func (v *VersionHistory) Run(ctx context.Context) ([]Record, error) {
	matches, err := filepath.Glob(filepath.Join(v.basePath, analyticsJournalPattern))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to glob analytics journal files")
	}

	results := make([]Record, 0, len(matches))
	for _, foundPath := range matches {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		record, err := v.parseJournal(foundPath)
		if err != nil {
			v.logger.Warn().Err(err).Str("path", foundPath).Msg("Skipping unreadable analytics journal")
			continue
		}
		results = append(results, record)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	v.logger.Info().Int("count", len(results)).Msg("Extracted OS version history records")
	return results, nil
}

// parseJournal reads the first line of a journal file and decodes the
// recorded OS version and timestamp.
func (v *VersionHistory) parseJournal(foundPath string) (Record, error) {
	file, err := os.Open(foundPath)
	if err != nil {
		return Record{}, errorwrapper.WrapError(err, "failed to open analytics journal")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		return Record{}, errorwrapper.NewError("analytics journal '%s' is empty", foundPath)
	}

	var line journalLine
	if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
		return Record{}, errorwrapper.WrapError(err, "failed to decode analytics journal line")
	}

	timestamp, err := time.Parse(analyticsJournalTimeLayout, line.Timestamp)
	if err != nil {
		return Record{}, errorwrapper.WrapError(err, "failed to parse analytics journal timestamp")
	}

	return Record{
		Timestamp: timestamp.UTC(),
		Module:    v.Name(),
		Event:     "os_version",
		Data:      fmt.Sprintf("Recorded OS version %s", line.OSVersion),
	}, nil
}
