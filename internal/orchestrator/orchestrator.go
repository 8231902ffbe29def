// Package orchestrator wires the extraction modules, the indicator matcher
// and the findings store into a scan workflow.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"iocscan/internal/config"
	"iocscan/internal/datastore"
	"iocscan/internal/extractor"
	"iocscan/internal/indicators"

	"github.com/rs/zerolog"
)

// Finding ties a positive match to the extraction record that produced it
type Finding struct {
	Module  string                  `json:"module"`
	Record  extractor.Record        `json:"-"`
	Match   indicators.MatchFinding `json:"match"`
	FoundAt time.Time               `json:"found_at"`
}

// ScanSummary reports the outcome of one scan session
type ScanSummary struct {
	SessionID    string
	TotalRecords int
	TotalMatches int
	// ModuleErrors maps module names to the error message that aborted them.
	// A failed module never aborts the whole scan.
	ModuleErrors map[string]string
}

// ScanOrchestrator handles the core logic of a scan workflow.
type ScanOrchestrator struct {
	globalConfig *config.GlobalConfig
	logger       zerolog.Logger
	matcher      *indicators.Matcher
	modules      []extractor.Module
	store        *datastore.ParquetFindingsStore
}

// NewScanOrchestrator creates a new ScanOrchestrator. The store may be nil,
// in which case findings are not persisted.
func NewScanOrchestrator(
	cfg *config.GlobalConfig,
	matcher *indicators.Matcher,
	modules []extractor.Module,
	store *datastore.ParquetFindingsStore,
	logger zerolog.Logger,
) *ScanOrchestrator {
	return &ScanOrchestrator{
		globalConfig: cfg,
		logger:       logger.With().Str("component", "ScanOrchestrator").Logger(),
		matcher:      matcher,
		modules:      modules,
		store:        store,
	}
}

// moduleResult carries one module's output across the worker boundary
type moduleResult struct {
	name    string
	records []extractor.Record
	err     error
}

// ExecuteScanWorkflow runs the full extract -> match -> store workflow.
// Extraction modules run concurrently; matching is applied to every candidate
// each record offers. scanSessionID names the Parquet output file.
func (so *ScanOrchestrator) ExecuteScanWorkflow(ctx context.Context, scanSessionID string) ([]Finding, *ScanSummary, error) {
	summary := &ScanSummary{
		SessionID:    scanSessionID,
		ModuleErrors: make(map[string]string),
	}

	records := so.runModules(ctx, summary)
	summary.TotalRecords = len(records)

	if ctx.Err() != nil {
		return nil, summary, ctx.Err()
	}

	findings := so.matchRecords(ctx, records)
	summary.TotalMatches = len(findings)

	so.logger.Info().
		Str("session_id", scanSessionID).
		Int("records", summary.TotalRecords).
		Int("matches", summary.TotalMatches).
		Msg("Scan workflow complete")

	if so.store != nil && len(findings) > 0 {
		if err := so.storeFindings(scanSessionID, findings); err != nil {
			so.logger.Error().Err(err).Str("session_id", scanSessionID).Msg("Failed to persist findings")
			return findings, summary, err
		}
	}

	return findings, summary, nil
}

// runModules executes all extraction modules concurrently and aggregates
// their records. Module failures are recorded in the summary and skipped.
func (so *ScanOrchestrator) runModules(ctx context.Context, summary *ScanSummary) []extractor.Record {
	results := make(chan moduleResult, len(so.modules))

	var wg sync.WaitGroup
	for _, mod := range so.modules {
		wg.Add(1)
		go func(mod extractor.Module) {
			defer wg.Done()
			recs, err := mod.Run(ctx)
			results <- moduleResult{name: mod.Name(), records: recs, err: err}
		}(mod)
	}
	wg.Wait()
	close(results)

	var allRecords []extractor.Record
	for res := range results {
		if res.err != nil {
			so.logger.Warn().Err(res.err).Str("module", res.name).Msg("Extraction module failed")
			summary.ModuleErrors[res.name] = res.err.Error()
			continue
		}
		so.logger.Info().Str("module", res.name).Int("records", len(res.records)).Msg("Extraction module finished")
		allRecords = append(allRecords, res.records...)
	}
	return allRecords
}

// matchRecords checks every candidate of every record against the indicator
// set, producing one finding per matching record and category.
func (so *ScanOrchestrator) matchRecords(ctx context.Context, records []extractor.Record) []Finding {
	var findings []Finding
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}

		if f := so.matcher.CheckDomains(ctx, rec.Candidates.URLs); f.Matched {
			findings = append(findings, so.newFinding(rec, f))
		}
		if f := so.matcher.CheckProcesses(rec.Candidates.Processes); f.Matched {
			findings = append(findings, so.newFinding(rec, f))
		}
		for _, email := range rec.Candidates.Emails {
			if f := so.matcher.CheckEmail(email); f.Matched {
				findings = append(findings, so.newFinding(rec, f))
				break
			}
		}
		for _, file := range rec.Candidates.Files {
			if f := so.matcher.CheckFile(file); f.Matched {
				findings = append(findings, so.newFinding(rec, f))
				break
			}
		}
	}
	return findings
}

func (so *ScanOrchestrator) newFinding(rec extractor.Record, match indicators.MatchFinding) Finding {
	return Finding{
		Module:  rec.Module,
		Record:  rec,
		Match:   match,
		FoundAt: time.Now().UTC(),
	}
}

// storeFindings persists the session's findings through the Parquet store
func (so *ScanOrchestrator) storeFindings(scanSessionID string, findings []Finding) error {
	parquetRecords := make([]datastore.FindingRecord, 0, len(findings))
	for _, f := range findings {
		parquetRecords = append(parquetRecords, datastore.TransformFinding(scanSessionID, f.Module, f.Match, f.FoundAt))
	}
	return so.store.StoreFindings(scanSessionID, parquetRecords)
}
