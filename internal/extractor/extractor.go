// Package extractor implements the artifact extraction modules that read
// device-specific stores from a decrypted filesystem tree and produce
// candidate records for the indicator matcher.
package extractor

import (
	"context"
	"time"
)

// Candidates are the artifact strings a record offers for matching
type Candidates struct {
	URLs      []string
	Processes []string
	Emails    []string
	Files     []string
}

// Record is a single extracted artifact with its timeline context
type Record struct {
	Timestamp  time.Time
	Module     string
	Event      string
	Data       string
	Candidates Candidates
}

// Module is the common capability interface of all extraction modules.
// Run returns a freshly allocated result slice on every invocation; modules
// never share or reuse result containers across calls.
type Module interface {
	Name() string
	Run(ctx context.Context) ([]Record, error)
}

// macAbsoluteEpoch is 2001-01-01 00:00:00 UTC, the zero point of Apple's
// absolute-time fields found in device databases.
var macAbsoluteEpoch = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// macTimeToTime converts a Mac absolute-time value (seconds since 2001) to
// a time.Time in UTC.
func macTimeToTime(seconds float64) time.Time {
	return macAbsoluteEpoch.Add(time.Duration(seconds * float64(time.Second)))
}
