package scheduler

import (
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/metrics"
)

// Evaluator decides which alerts fire on each pass. It keeps the gating
// state shared by all entities; per-entity flags live on the entities.
type Evaluator struct {
	// timing is the threshold and gating policy.
	timing alarm.Timing
	// message is the pre-warning text.
	message string
	// text gates pre-warnings.
	text gate
	// sound gates terminal alerts.
	sound gate
	// metrics records fires, suppressions and evictions.
	metrics *metrics.Metrics
}

// NewEvaluator creates an evaluator for an already normalized timing policy.
func NewEvaluator(timing alarm.Timing, message string, m *metrics.Metrics) *Evaluator {
	if message == "" {
		message = alarm.DefaultPreWarningMessage
	}

	return &Evaluator{
		timing:  timing,
		message: message,
		metrics: m,
	}
}

// Evaluate runs one pass over the tracker at reading now. The skill level
// must be sampled once by the caller so every entity sees the same
// thresholds. Entities are mutated in place and, under EvictOnTerminal,
// removed once their terminal threshold is reached.
func (e *Evaluator) Evaluate(
	now alarm.Reading,
	skill int64,
	settings alarm.Settings,
	tracker *Tracker,
) []alarm.Alert {
	if tracker.Len() == 0 {
		e.endCycle()

		return nil
	}

	settings = settings.Clamp()

	var (
		terminal   = e.timing.TerminalThreshold(skill)
		preWarning = e.timing.PreWarningThreshold(terminal, settings.PreWarningLead)
		alerts     []alarm.Alert
		expired    []alarm.EntityID
	)

	for _, entity := range tracker.ordered() {
		elapsed := entity.Elapsed(now)
		if elapsed < 0 {
			continue
		}

		if elapsed >= terminal {
			expired = append(expired, entity.ID)

			if !entity.TerminalFired {
				if alert, ok := e.fireTerminal(now, entity, settings); ok {
					alerts = append(alerts, alert)
				}
			}
		}

		if !entity.PreWarned && elapsed >= preWarning {
			if alert, ok := e.firePreWarning(now, entity, settings); ok {
				alerts = append(alerts, alert)
			}
		}
	}

	if e.timing.Eviction == alarm.EvictOnTerminal && len(expired) > 0 {
		for _, id := range expired {
			tracker.End(id)
		}

		e.metrics.Evicted(len(expired))

		if tracker.Len() == 0 {
			e.endCycle()
		}
	}

	return alerts
}

// EntityRemoved must be called after an end signal; it closes the cycle
// when the active set became empty.
func (e *Evaluator) EntityRemoved(tracker *Tracker) {
	if tracker.Len() == 0 {
		e.endCycle()
	}
}

// Reset clears all gating state after the environment invalidated tracking.
// Cooldowns are cleared too, since the host clock may restart after a reset.
func (e *Evaluator) Reset() {
	e.text.clear()
	e.sound.clear()
}

// fireTerminal applies the sound toggle and gate to a terminal crossing.
func (e *Evaluator) fireTerminal(now alarm.Reading, entity *alarm.Entity, settings alarm.Settings) (alarm.Alert, bool) {
	kind := string(alarm.AlertTerminal)

	if !settings.PlayTerminalSound {
		e.metrics.AlertSuppressed(kind, metrics.ReasonDisabled)

		return alarm.Alert{}, false
	}

	if ok, reason := e.sound.allow(e.timing, now); !ok {
		e.metrics.AlertSuppressed(kind, reason)

		return alarm.Alert{}, false
	}

	e.sound.record(now)
	entity.TerminalFired = true
	e.metrics.AlertFired(kind)

	return alarm.Alert{
		Kind:     alarm.AlertTerminal,
		EntityID: entity.ID,
		At:       now,
		Volume:   settings.SoundVolume,
	}, true
}

// firePreWarning applies the notification toggle and gate to a pre-warning crossing.
func (e *Evaluator) firePreWarning(now alarm.Reading, entity *alarm.Entity, settings alarm.Settings) (alarm.Alert, bool) {
	kind := string(alarm.AlertPreWarning)

	if !settings.SendPreWarning {
		e.metrics.AlertSuppressed(kind, metrics.ReasonDisabled)

		return alarm.Alert{}, false
	}

	if ok, reason := e.text.allow(e.timing, now); !ok {
		e.metrics.AlertSuppressed(kind, reason)

		return alarm.Alert{}, false
	}

	e.text.record(now)
	entity.PreWarned = true
	e.metrics.AlertFired(kind)

	return alarm.Alert{
		Kind:     alarm.AlertPreWarning,
		EntityID: entity.ID,
		At:       now,
		Message:  e.message,
	}, true
}

// endCycle reopens the per-cycle gates. Cooldown gates are left alone.
func (e *Evaluator) endCycle() {
	if e.timing.Gating != alarm.GatingCycle {
		return
	}

	e.text.clear()
	e.sound.clear()
}
