package orchestrator

import (
	"iocscan/internal/config"
	"iocscan/internal/extractor"

	"github.com/rs/zerolog"
)

// BuildModules assembles the extraction modules enabled by configuration
func BuildModules(cfg *config.ExtractorConfig, logger zerolog.Logger) []extractor.Module {
	var modules []extractor.Module

	if cfg.EnableVersionHistory {
		modules = append(modules, extractor.NewVersionHistory(cfg.BasePath, logger))
	}
	if cfg.EnableCallHistory {
		modules = append(modules, extractor.NewCallHistory(cfg.BasePath, logger))
	}
	if cfg.EnableBrowserHistory {
		modules = append(modules, extractor.NewBrowserHistory(cfg.BasePath, logger))
	}
	if cfg.EnableRunningProcesses {
		modules = append(modules, extractor.NewRunningProcesses(logger))
	}

	return modules
}
