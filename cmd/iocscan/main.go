package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iocscan/internal/config"
	"iocscan/internal/datastore"
	"iocscan/internal/indicators"
	"iocscan/internal/logger"
	"iocscan/internal/orchestrator"
	"iocscan/internal/urlhandler"

	"github.com/rs/zerolog"
)

func main() {
	flags := ParseFlags()

	gCfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not load global config using path '%s': %v", flags.GlobalConfigFile, err)
	}

	// Command line flags take precedence over the config file.
	if flags.BundleFile != "" {
		gCfg.IndicatorConfig.BundlePath = flags.BundleFile
	}
	if flags.TargetPath != "" {
		gCfg.ExtractorConfig.BasePath = flags.TargetPath
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Main: Could not initialize logger: %v", err)
	}

	if err := config.ValidateConfig(gCfg); err != nil {
		zLogger.Fatal().Err(err).Msg("Configuration validation failed")
	}

	if gCfg.IndicatorConfig.BundlePath == "" {
		zLogger.Fatal().Msg("No indicator bundle configured, pass -iocs or set indicator_config.bundle_path")
	}

	iocSet, err := indicators.LoadIndicatorSet(gCfg.IndicatorConfig.BundlePath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Str("bundle", gCfg.IndicatorConfig.BundlePath).Msg("Failed to load indicator bundle")
	}
	domains, processes, emails, files := iocSet.Counts()
	zLogger.Info().
		Int("domains", domains).
		Int("processes", processes).
		Int("emails", emails).
		Int("files", files).
		Msg("Indicator bundle loaded")

	matcher, err := buildMatcher(gCfg, iocSet, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to build indicator matcher")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel, zLogger)

	if flags.hasAdHocCheck() {
		runAdHocChecks(ctx, flags, matcher)
		return
	}

	runScan(ctx, flags, gCfg, matcher, zLogger)
}

// buildMatcher wires the shortener registry, the unshortener and the matcher
// from configuration.
func buildMatcher(gCfg *config.GlobalConfig, iocSet *indicators.IndicatorSet, zLogger zerolog.Logger) (*indicators.Matcher, error) {
	registry := urlhandler.NewShortenerRegistry(gCfg.IndicatorConfig.ExtraShortenerDomains...)

	timeout := time.Duration(gCfg.IndicatorConfig.UnshortenTimeoutSeconds) * time.Second
	unshortener, err := urlhandler.NewUnshortener(timeout, zLogger)
	if err != nil {
		return nil, err
	}

	matcherCfg := indicators.MatcherConfig{
		MaxRedirectDepth: gCfg.IndicatorConfig.MaxRedirectDepth,
	}
	return indicators.NewMatcher(iocSet, registry, unshortener, matcherCfg, zLogger), nil
}

// runAdHocChecks matches the candidates given on the command line and prints
// each finding as JSON. Exits non-zero when any candidate matched.
func runAdHocChecks(ctx context.Context, flags AppFlags, matcher *indicators.Matcher) {
	var findings []indicators.MatchFinding

	if flags.CheckURL != "" {
		findings = append(findings, matcher.CheckDomain(ctx, flags.CheckURL))
	}
	if flags.CheckProcess != "" {
		findings = append(findings, matcher.CheckProcess(flags.CheckProcess))
	}
	if flags.CheckEmail != "" {
		findings = append(findings, matcher.CheckEmail(flags.CheckEmail))
	}
	if flags.CheckFile != "" {
		findings = append(findings, matcher.CheckFile(flags.CheckFile))
	}

	matched := false
	for _, f := range findings {
		out, _ := json.Marshal(f)
		fmt.Println(string(out))
		if f.Matched {
			matched = true
		}
	}
	if matched {
		os.Exit(1)
	}
}

// runScan executes the full extraction and matching workflow
func runScan(ctx context.Context, flags AppFlags, gCfg *config.GlobalConfig, matcher *indicators.Matcher, zLogger zerolog.Logger) {
	sessionID := flags.SessionID
	if sessionID == "" {
		sessionID = time.Now().UTC().Format("20060102-150405")
	}

	var store *datastore.ParquetFindingsStore
	if gCfg.StorageConfig.Enabled {
		var err error
		store, err = datastore.NewParquetFindingsStoreBuilder(zLogger).
			WithStorageConfig(&gCfg.StorageConfig).
			Build()
		if err != nil {
			zLogger.Fatal().Err(err).Msg("Failed to build findings store")
		}
	}

	modules := orchestrator.BuildModules(&gCfg.ExtractorConfig, zLogger)
	if len(modules) == 0 {
		zLogger.Fatal().Msg("No extraction modules enabled")
	}

	scanOrchestrator := orchestrator.NewScanOrchestrator(gCfg, matcher, modules, store, zLogger)

	findings, summary, err := scanOrchestrator.ExecuteScanWorkflow(ctx, sessionID)
	if err != nil {
		zLogger.Fatal().Err(err).Str("session_id", sessionID).Msg("Scan workflow failed")
	}

	for _, f := range findings {
		out, _ := json.Marshal(f)
		fmt.Println(string(out))
	}

	zLogger.Info().
		Str("session_id", summary.SessionID).
		Int("records", summary.TotalRecords).
		Int("matches", summary.TotalMatches).
		Int("module_errors", len(summary.ModuleErrors)).
		Msg("Scan finished")

	if summary.TotalMatches > 0 {
		os.Exit(1)
	}
}

// setupSignalHandler cancels the scan context on SIGINT/SIGTERM
func setupSignalHandler(cancel context.CancelFunc, zLogger zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Warn().Str("signal", sig.String()).Msg("Received shutdown signal, cancelling scan")
		cancel()
	}()
}
