package notify

import (
	"context"

	"github.com/oshokin/burner-alarm/internal/logger"
)

// LogNotifier writes the pre-warning to the log.
type LogNotifier struct{}

// NewLogNotifier creates a log notifier.
func NewLogNotifier() *LogNotifier {
	return new(LogNotifier)
}

// Notify logs the message at info level.
func (*LogNotifier) Notify(ctx context.Context, message string) error {
	logger.InfoKV(ctx, "Pre-warning", "message", message)

	return nil
}
