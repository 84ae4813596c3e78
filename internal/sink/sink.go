package sink

import (
	"context"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// Notifier delivers a pre-warning text.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Player plays the terminal alert at a volume in dB.
type Player interface {
	Play(ctx context.Context, volume float64) error
}

// Observer receives every fired alert, whatever its kind.
type Observer interface {
	Observe(ctx context.Context, alert alarm.Alert) error
}

// Outcome is the result of one delivery as seen by the boundary.
type Outcome int

const (
	// OutcomeDelivered means the sink accepted the alert.
	OutcomeDelivered Outcome = iota
	// OutcomeFailed means the sink returned an error or panicked.
	OutcomeFailed
	// OutcomeSkipped means no sink is configured for the alert kind.
	OutcomeSkipped
	// OutcomeDropped means the queue was full or closed.
	OutcomeDropped
)

// String returns the metric label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}
