package extractor

import (
	"context"
	"fmt"
	"time"

	"iocscan/internal/errorwrapper"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"
)

// RunningProcesses snapshots the names of processes running on the scanning
// host and offers each as a process-matching candidate. Opt-in: unlike the
// file-based modules it inspects the live system, not the target image.
type RunningProcesses struct {
	logger zerolog.Logger
}

// NewRunningProcesses creates a RunningProcesses module
func NewRunningProcesses(logger zerolog.Logger) *RunningProcesses {
	return &RunningProcesses{
		logger: logger.With().Str("module", "RunningProcesses").Logger(),
	}
}

// Name implements Module
func (r *RunningProcesses) Name() string {
	return "running_processes"
}

// Run implements Module
func (r *RunningProcesses) Run(ctx context.Context) ([]Record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to list running processes")
	}

	now := time.Now().UTC()
	results := make([]Record, 0, len(procs))
	for _, p := range procs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			// Processes can exit between listing and inspection.
			continue
		}

		results = append(results, Record{
			Timestamp: now,
			Module:    r.Name(),
			Event:     "process",
			Data:      fmt.Sprintf("Running process %s (pid %d)", name, p.Pid),
			Candidates: Candidates{
				Processes: []string{name},
			},
		})
	}

	r.logger.Info().Int("count", len(results)).Msg("Snapshotted running processes")
	return results, nil
}
