package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"iocscan/internal/config"
	"iocscan/internal/datastore"
	"iocscan/internal/extractor"
	"iocscan/internal/indicators"
	"iocscan/internal/urlhandler"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModule returns canned records or a canned error
type fakeModule struct {
	name    string
	records []extractor.Record
	err     error
}

func (f *fakeModule) Name() string { return f.name }

func (f *fakeModule) Run(_ context.Context) ([]extractor.Record, error) {
	return f.records, f.err
}

func testMatcher(t *testing.T) *indicators.Matcher {
	t.Helper()
	bundlePath := filepath.Join(t.TempDir(), "bundle.json")
	bundle := `{"objects": [
		{"type": "indicator", "pattern": "[domain-name:value = 'evil.com']"},
		{"type": "indicator", "pattern": "[process:name = 'implantd']"},
		{"type": "indicator", "pattern": "[email-addr:value = 'attacker@evil.com']"},
		{"type": "indicator", "pattern": "[file:name = 'Implant.dylib']"}
	]}`
	require.NoError(t, os.WriteFile(bundlePath, []byte(bundle), 0644))

	set, err := indicators.LoadIndicatorSet(bundlePath, zerolog.Nop())
	require.NoError(t, err)

	return indicators.NewMatcher(set, urlhandler.NewShortenerRegistry(), nil, indicators.DefaultMatcherConfig(), zerolog.Nop())
}

func record(module string, candidates extractor.Candidates) extractor.Record {
	return extractor.Record{
		Timestamp:  time.Now().UTC(),
		Module:     module,
		Event:      "test",
		Candidates: candidates,
	}
}

func TestExecuteScanWorkflow(t *testing.T) {
	modules := []extractor.Module{
		&fakeModule{name: "browser_history", records: []extractor.Record{
			record("browser_history", extractor.Candidates{URLs: []string{"https://example.com"}}),
			record("browser_history", extractor.Candidates{URLs: []string{"https://evil.com/payload"}}),
		}},
		&fakeModule{name: "running_processes", records: []extractor.Record{
			record("running_processes", extractor.Candidates{Processes: []string{"launchd", "implantd"}}),
		}},
		&fakeModule{name: "broken_module", err: errors.New("database is locked")},
	}

	so := NewScanOrchestrator(config.NewDefaultGlobalConfig(), testMatcher(t), modules, nil, zerolog.Nop())

	findings, summary, err := so.ExecuteScanWorkflow(context.Background(), "session-1")
	require.NoError(t, err)

	assert.Equal(t, "session-1", summary.SessionID)
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 2, summary.TotalMatches)
	assert.Contains(t, summary.ModuleErrors, "broken_module")

	require.Len(t, findings, 2)
	byModule := make(map[string]Finding)
	for _, f := range findings {
		byModule[f.Module] = f
	}
	assert.Equal(t, indicators.KindDomain, byModule["browser_history"].Match.Kind)
	assert.Equal(t, "evil.com", byModule["browser_history"].Match.Indicator)
	assert.Equal(t, indicators.KindProcess, byModule["running_processes"].Match.Kind)
}

func TestExecuteScanWorkflow_EmailAndFileCandidates(t *testing.T) {
	modules := []extractor.Module{
		&fakeModule{name: "mail", records: []extractor.Record{
			record("mail", extractor.Candidates{
				Emails: []string{"friend@example.com", "Attacker@Evil.com"},
				Files:  []string{"/Library/Caches/Implant.dylib"},
			}),
		}},
	}

	so := NewScanOrchestrator(config.NewDefaultGlobalConfig(), testMatcher(t), modules, nil, zerolog.Nop())

	findings, summary, err := so.ExecuteScanWorkflow(context.Background(), "session-2")
	require.NoError(t, err)

	// One record offering both an email and a file candidate yields one
	// finding per category.
	assert.Equal(t, 2, summary.TotalMatches)
	require.Len(t, findings, 2)
}

func TestExecuteScanWorkflow_NoMatches(t *testing.T) {
	modules := []extractor.Module{
		&fakeModule{name: "clean", records: []extractor.Record{
			record("clean", extractor.Candidates{URLs: []string{"https://example.com"}}),
		}},
	}

	so := NewScanOrchestrator(config.NewDefaultGlobalConfig(), testMatcher(t), modules, nil, zerolog.Nop())

	findings, summary, err := so.ExecuteScanWorkflow(context.Background(), "session-3")
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Zero(t, summary.TotalMatches)
	assert.Equal(t, 1, summary.TotalRecords)
}

func TestExecuteScanWorkflow_PersistsFindings(t *testing.T) {
	store, err := datastore.NewParquetFindingsStoreBuilder(zerolog.Nop()).
		WithStorageConfig(&config.StorageConfig{
			ParquetBasePath:  t.TempDir(),
			CompressionCodec: "zstd",
		}).
		Build()
	require.NoError(t, err)

	modules := []extractor.Module{
		&fakeModule{name: "browser_history", records: []extractor.Record{
			record("browser_history", extractor.Candidates{URLs: []string{"https://evil.com"}}),
		}},
	}

	so := NewScanOrchestrator(config.NewDefaultGlobalConfig(), testMatcher(t), modules, store, zerolog.Nop())

	_, summary, err := so.ExecuteScanWorkflow(context.Background(), "session-4")
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalMatches)

	stored, err := store.LoadFindings("session-4")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "browser_history", stored[0].Module)
	assert.Equal(t, "evil.com", stored[0].Indicator)
}

func TestExecuteScanWorkflow_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	modules := []extractor.Module{
		&fakeModule{name: "noop"},
	}
	so := NewScanOrchestrator(config.NewDefaultGlobalConfig(), testMatcher(t), modules, nil, zerolog.Nop())

	_, _, err := so.ExecuteScanWorkflow(ctx, "session-5")
	assert.ErrorIs(t, err, context.Canceled)
}
