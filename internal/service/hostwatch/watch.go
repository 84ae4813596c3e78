package hostwatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// DefaultInterval is the polling period.
const DefaultInterval = 5 * time.Second

// ResetReason is passed to the scheduler when the host exits.
const ResetReason = "host process exited"

// errProcessRequired is returned when no process name is configured.
var errProcessRequired = errors.New("host process name must be provided")

// Resetter receives the reset signal.
type Resetter interface {
	OnReset(ctx context.Context, source scheduler.ResetSource, reason string)
}

// Options controls the watcher.
type Options struct {
	// Process is the host executable name, matched case-insensitively with
	// or without an .exe suffix.
	Process string
	// Interval is the polling period.
	Interval time.Duration
	// List returns the process table; ps.Processes when nil.
	List func() ([]ps.Process, error)
}

// Run polls until ctx is done. A failed scan is logged and skipped.
func Run(ctx context.Context, resetter Resetter, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "host-watch")

	if opts.Process == "" {
		return errProcessRequired
	}

	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	if opts.List == nil {
		opts.List = ps.Processes
	}

	running, err := isRunning(opts.List, opts.Process)
	if err != nil {
		logger.WarnKV(ctx, "Process scan failed", "error", err)
	}

	logger.InfoKV(ctx, "Watching host process", "process", opts.Process, "running", running,
		"interval", opts.Interval.String())

	// Setup polling ticker with fixed interval.
	ticker := time.NewTicker(opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now, err := isRunning(opts.List, opts.Process)
			if err != nil {
				logger.WarnKV(ctx, "Process scan failed", "error", err)

				continue
			}

			switch {
			case running && !now:
				logger.InfoKV(ctx, "Host process exited", "process", opts.Process)
				resetter.OnReset(ctx, scheduler.ResetHostExit, ResetReason)
			case !running && now:
				logger.InfoKV(ctx, "Host process started", "process", opts.Process)
			}

			running = now
		}
	}
}

// isRunning reports whether a process named name is in the table.
func isRunning(list func() ([]ps.Process, error), name string) (bool, error) {
	processList, err := list()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if matches(process.Executable(), name) {
			return true, nil
		}
	}

	return false, nil
}

// matches compares executable names ignoring case and an .exe suffix.
func matches(executable, name string) bool {
	trim := func(s string) string {
		s = strings.ToLower(s)

		return strings.TrimSuffix(s, ".exe")
	}

	return trim(executable) == trim(name)
}
