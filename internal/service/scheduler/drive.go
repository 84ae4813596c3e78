package scheduler

import (
	"context"
	"time"

	"github.com/oshokin/burner-alarm/internal/logger"
)

// DefaultTickInterval is the length of one game tick.
const DefaultTickInterval = 600 * time.Millisecond

// Drive calls TickAt on a fixed cadence until the context is canceled.
// It is the tick source for hosts that report spawns but not ticks.
func (s *Scheduler) Drive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	logger.InfoKV(ctx, "Driving ticks", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Tick driver stopped")

			return
		case <-ticker.C:
			s.TickAt(ctx, 0)
		}
	}
}
