package scheduler

import (
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/metrics"
)

// gate limits how often one alert class fires.
type gate struct {
	// fired is set once the class fired since the last clear.
	fired bool
	// last is the reading of the most recent fire.
	last alarm.Reading
}

// allow reports whether the class may fire at now and, if not, why.
// Cooldown gating measures the window from the last fire; a reading before
// the last fire keeps the class closed. Cycle gating allows one fire until
// the gate is cleared.
func (g *gate) allow(timing alarm.Timing, now alarm.Reading) (bool, string) {
	if !g.fired {
		return true, ""
	}

	if timing.Gating == alarm.GatingCycle {
		return false, metrics.ReasonCycle
	}

	if now-g.last >= timing.CooldownWindow() {
		return true, ""
	}

	return false, metrics.ReasonCooldown
}

// record marks a fire at now.
func (g *gate) record(now alarm.Reading) {
	g.fired = true
	g.last = now
}

// clear reopens the gate.
func (g *gate) clear() {
	*g = gate{}
}
