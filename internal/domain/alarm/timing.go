package alarm

import (
	"errors"
	"fmt"
)

// ClockMode selects what a Reading measures.
type ClockMode string

const (
	// ClockTicks counts game ticks; one reading per tick.
	ClockTicks ClockMode = "ticks"
	// ClockWallTime measures milliseconds of wall-clock time.
	ClockWallTime ClockMode = "wallclock"
)

// Gating selects how repeated alerts of one class are limited.
type Gating string

const (
	// GatingCooldown lets an alert class fire again only after a fixed
	// cooldown window measured across all entities.
	GatingCooldown Gating = "cooldown"
	// GatingCycle lets each alert class fire once while the active set stays
	// non-empty.
	GatingCycle Gating = "cycle"
)

// Eviction selects when an entity leaves the active set besides its end signal.
type Eviction string

const (
	// EvictOnTerminal drops an entity as soon as its terminal threshold is reached.
	EvictOnTerminal Eviction = "terminal"
	// EvictOnDespawn keeps an entity until the host reports it gone.
	EvictOnDespawn Eviction = "despawn"
)

const (
	// BaseBurnTicks is the guaranteed burn time of a lit burner before the
	// skill bonus.
	BaseBurnTicks int64 = 200
	// DefaultCooldownTicks separates two alerts of the same class.
	DefaultCooldownTicks int64 = 25

	// tickMillis is the length of a game tick in milliseconds.
	tickMillis int64 = 600
	// secondMillis is the length of a lead-time second in milliseconds.
	secondMillis int64 = 1000
)

var (
	// ErrUnknownClockMode is returned for an unsupported clock mode.
	ErrUnknownClockMode = errors.New("unknown clock mode")
	// ErrUnknownGating is returned for an unsupported gating strategy.
	ErrUnknownGating = errors.New("unknown gating strategy")
	// ErrUnknownEviction is returned for an unsupported eviction policy.
	ErrUnknownEviction = errors.New("unknown eviction policy")
)

// Timing is the threshold and gating policy shared by all entities.
type Timing struct {
	// Mode selects the reading unit.
	Mode ClockMode `yaml:"mode"`
	// CooldownTicks is the cooldown window in ticks (GatingCooldown only).
	CooldownTicks int64 `yaml:"cooldown_ticks"`
	// Gating selects the repeat-limiting strategy.
	Gating Gating `yaml:"gating"`
	// Eviction selects when entities past their terminal threshold are dropped.
	Eviction Eviction `yaml:"eviction"`
}

// DefaultTiming returns tick-mode timing with per-entity flags and a global
// cooldown, evicting on the terminal threshold.
func DefaultTiming() Timing {
	return Timing{
		Mode:          ClockTicks,
		CooldownTicks: DefaultCooldownTicks,
		Gating:        GatingCooldown,
		Eviction:      EvictOnTerminal,
	}
}

// Normalize fills empty fields with defaults and rejects unknown values.
func (t Timing) Normalize() (Timing, error) {
	defaults := DefaultTiming()

	if t.Mode == "" {
		t.Mode = defaults.Mode
	}

	if t.Gating == "" {
		t.Gating = defaults.Gating
	}

	if t.Eviction == "" {
		t.Eviction = defaults.Eviction
	}

	if t.CooldownTicks <= 0 {
		t.CooldownTicks = defaults.CooldownTicks
	}

	switch t.Mode {
	case ClockTicks, ClockWallTime:
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownClockMode, t.Mode)
	}

	switch t.Gating {
	case GatingCooldown, GatingCycle:
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownGating, t.Gating)
	}

	switch t.Eviction {
	case EvictOnTerminal, EvictOnDespawn:
	default:
		return t, fmt.Errorf("%w: %q", ErrUnknownEviction, t.Eviction)
	}

	return t, nil
}

// TerminalThreshold returns the elapsed readings after which a burner with
// the given skill level is certain to have finished its guaranteed burn.
func (t Timing) TerminalThreshold(skill int64) Reading {
	return Reading(BaseBurnTicks+skill) * t.TickLength()
}

// PreWarningThreshold returns the elapsed readings at which the pre-warning
// becomes due. Negative leads count as zero; a lead longer than the terminal
// threshold yields a threshold at or below zero, which is due immediately.
func (t Timing) PreWarningThreshold(terminal Reading, lead int64) Reading {
	return terminal - Reading(max(lead, 0)*t.readingsPerLeadUnit())
}

// CooldownWindow returns the cooldown length in readings.
func (t Timing) CooldownWindow() Reading {
	return Reading(t.CooldownTicks) * t.TickLength()
}

// TickLength returns how many readings one game tick spans.
func (t Timing) TickLength() Reading {
	if t.Mode == ClockWallTime {
		return Reading(tickMillis)
	}

	return 1
}

// readingsPerLeadUnit returns how many readings one unit of lead spans:
// a tick in tick mode, a second in wall-clock mode.
func (t Timing) readingsPerLeadUnit() int64 {
	if t.Mode == ClockWallTime {
		return secondMillis
	}

	return 1
}
