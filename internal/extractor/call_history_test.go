package extractor

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCallHistoryDB(t *testing.T, basePath string) {
	t.Helper()
	dbPath := filepath.Join(basePath, callHistoryRootPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(dbPath), 0755))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE ZCALLRECORD (
			ZDATE REAL,
			ZDURATION REAL,
			ZLOCATION TEXT,
			ZADDRESS TEXT,
			ZSERVICE_PROVIDER TEXT
		);
	`)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO ZCALLRECORD (ZDATE, ZDURATION, ZLOCATION, ZADDRESS, ZSERVICE_PROVIDER) VALUES
			(700000000.0, 63.0, 'Unknown', '+1555000111', 'com.apple.Telephony'),
			(700000500.0, 0.0, NULL, NULL, 'com.skype.skype');
	`)
	require.NoError(t, err)
}

func TestCallHistory_Run(t *testing.T) {
	basePath := t.TempDir()
	createCallHistoryDB(t, basePath)

	records, err := NewCallHistory(basePath, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	data := []string{records[0].Data, records[1].Data}
	assert.Contains(t, data, "From +1555000111 using com.apple.Telephony during 63 seconds")

	for _, rec := range records {
		assert.Equal(t, "call_history", rec.Module)
		assert.Equal(t, "call", rec.Event)
		// Call records are timeline context only, never matched.
		assert.Empty(t, rec.Candidates.URLs)
		assert.Empty(t, rec.Candidates.Processes)
	}
}

func TestCallHistory_MissingDatabase(t *testing.T) {
	records, err := NewCallHistory(t.TempDir(), zerolog.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, records)
}
