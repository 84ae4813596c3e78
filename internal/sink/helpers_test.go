package sink

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const (
	testWait = time.Second
	testTick = 5 * time.Millisecond
)

// notifierFunc adapts a function to Notifier.
type notifierFunc func(ctx context.Context, message string) error

// Notify calls f.
func (f notifierFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

// failedDeliveries sums the failed outcomes recorded in reg.
func failedDeliveries(t *testing.T, reg *prometheus.Registry) int {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0

	for _, family := range families {
		if family.GetName() != "burner_alarm_deliveries_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == OutcomeFailed.String() {
					total += int(metric.GetCounter().GetValue())
				}
			}
		}
	}

	return total
}
