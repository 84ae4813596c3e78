package notify

import (
	"context"
	"errors"

	"github.com/oshokin/burner-alarm/internal/sink"
)

// MultiNotifier forwards each message to every notifier.
type MultiNotifier struct {
	// notifiers are the targets.
	notifiers []sink.Notifier
}

// NewMultiNotifier creates a fan-out over the non-nil notifiers.
func NewMultiNotifier(notifiers ...sink.Notifier) *MultiNotifier {
	m := new(MultiNotifier)

	for _, n := range notifiers {
		if n != nil {
			m.notifiers = append(m.notifiers, n)
		}
	}

	return m
}

// Len returns the number of targets.
func (m *MultiNotifier) Len() int {
	return len(m.notifiers)
}

// Notify calls every notifier; one failing does not stop the others.
func (m *MultiNotifier) Notify(ctx context.Context, message string) error {
	var errs []error

	for _, n := range m.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
