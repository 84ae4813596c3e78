package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "burner_alarm_"

// Suppression reasons.
const (
	ReasonDisabled = "disabled"
	ReasonCooldown = "cooldown"
	ReasonCycle    = "cycle"
)

// Metrics holds the alarm collectors.
type Metrics struct {
	alertsFired      *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	evictions        prometheus.Counter
	resets           *prometheus.CounterVec
	ticks            prometheus.Counter
	tracked          prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		alertsFired: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_fired_total",
				Help: "Alerts emitted by kind",
			},
			[]string{"kind"},
		),
		alertsSuppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "alerts_suppressed_total",
				Help: "Threshold crossings that did not fire, by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "deliveries_total",
				Help: "Sink deliveries by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		evictions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "evictions_total",
				Help: "Entities evicted after reaching the terminal threshold",
			},
		),
		resets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "resets_total",
				Help: "Full tracking resets by source",
			},
			[]string{"source"},
		),
		ticks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "ticks_total",
				Help: "Evaluation passes",
			},
		),
		tracked: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "tracked_entities",
				Help: "Entities currently in the active set",
			},
		),
	}

	reg.MustRegister(
		m.alertsFired,
		m.alertsSuppressed,
		m.deliveries,
		m.evictions,
		m.resets,
		m.ticks,
		m.tracked,
	)

	return m
}

// Handler returns an HTTP handler serving the gatherer's metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// AlertFired counts an emitted alert.
func (m *Metrics) AlertFired(kind string) {
	if m == nil {
		return
	}

	m.alertsFired.WithLabelValues(kind).Inc()
}

// AlertSuppressed counts a crossing that was held back.
func (m *Metrics) AlertSuppressed(kind, reason string) {
	if m == nil {
		return
	}

	m.alertsSuppressed.WithLabelValues(kind, reason).Inc()
}

// Delivery counts a sink delivery outcome.
func (m *Metrics) Delivery(kind, outcome string) {
	if m == nil {
		return
	}

	m.deliveries.WithLabelValues(kind, outcome).Inc()
}

// Evicted counts evicted entities.
func (m *Metrics) Evicted(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.evictions.Add(float64(n))
}

// Reset counts a full reset. source must come from a fixed set.
func (m *Metrics) Reset(source string) {
	if m == nil {
		return
	}

	m.resets.WithLabelValues(source).Inc()
}

// Tick counts an evaluation pass.
func (m *Metrics) Tick() {
	if m == nil {
		return
	}

	m.ticks.Inc()
}

// Tracked sets the active set size.
func (m *Metrics) Tracked(n int) {
	if m == nil {
		return
	}

	m.tracked.Set(float64(n))
}
