package extractor

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createBrowserHistoryDB(t *testing.T, basePath string) {
	t.Helper()
	dbPath := filepath.Join(basePath, browserHistoryRootPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0755))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE history_items (id INTEGER PRIMARY KEY, url TEXT);
		CREATE TABLE history_visits (id INTEGER PRIMARY KEY, history_item INTEGER, visit_time REAL);
	`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO history_items (id, url) VALUES
			(1, 'https://example.com/news'),
			(2, 'https://evil.com/payload');
		INSERT INTO history_visits (history_item, visit_time) VALUES
			(1, 700000000.0),
			(2, 700000100.0),
			(2, 700000200.0);
	`)
	require.NoError(t, err)
}

func TestBrowserHistory_Run(t *testing.T) {
	basePath := t.TempDir()
	createBrowserHistoryDB(t, basePath)

	records, err := NewBrowserHistory(basePath, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	urls := make([]string, 0, len(records))
	timestamps := make([]time.Time, 0, len(records))
	for _, rec := range records {
		assert.Equal(t, "browser_history", rec.Module)
		assert.Equal(t, "visit", rec.Event)
		require.Len(t, rec.Candidates.URLs, 1)
		urls = append(urls, rec.Candidates.URLs[0])
		timestamps = append(timestamps, rec.Timestamp)
	}
	assert.Contains(t, urls, "https://example.com/news")
	assert.Contains(t, urls, "https://evil.com/payload")

	// 700000000 seconds after 2001-01-01 UTC.
	want := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC).Add(700000000 * time.Second)
	assert.Contains(t, timestamps, want)
}

func TestBrowserHistory_MissingDatabase(t *testing.T) {
	records, err := NewBrowserHistory(t.TempDir(), zerolog.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
}
