package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// TestNilMetricsIsNoop checks every recorder tolerates a nil receiver.
func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics

	require.NotPanics(t, func() {
		m.AlertFired("terminal")
		m.AlertSuppressed("terminal", ReasonCooldown)
		m.Delivery("terminal", "failed")
		m.Evicted(2)
		m.Reset("rpc")
		m.Tick()
		m.Tracked(3)
	})
}

// TestCounters checks recorded values and the HTTP exposition.
func TestCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.AlertFired("pre_warning")
	m.AlertFired("pre_warning")
	m.AlertSuppressed("terminal", ReasonCooldown)
	m.Evicted(3)
	m.Evicted(0)
	m.Tracked(4)
	m.Tick()

	require.InDelta(t, 2, testutil.ToFloat64(m.alertsFired.WithLabelValues("pre_warning")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.alertsSuppressed.WithLabelValues("terminal", ReasonCooldown)), 0)
	require.InDelta(t, 3, testutil.ToFloat64(m.evictions), 0)
	require.InDelta(t, 4, testutil.ToFloat64(m.tracked), 0)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "burner_alarm_alerts_fired_total")
	require.Contains(t, rec.Body.String(), "burner_alarm_ticks_total 1")
}
