package alarm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestEntityElapsed checks that a clock moving backwards yields a negative elapsed value.
func TestEntityElapsed(t *testing.T) {
	t.Parallel()

	e := &Entity{StartedAt: 100}

	require.Equal(t, Reading(83), e.Elapsed(183))
	require.Equal(t, Reading(-10), e.Elapsed(90))
}

// TestSettingsClamp checks volume and lead bounds.
func TestSettingsClamp(t *testing.T) {
	t.Parallel()

	s := Settings{SoundVolume: -100, PreWarningLead: -5}.Clamp()
	require.InDelta(t, MinSoundVolume, s.SoundVolume, 0)
	require.Equal(t, MinPreWarningLead, s.PreWarningLead)

	s = Settings{SoundVolume: 30, PreWarningLead: 1000}.Clamp()
	require.InDelta(t, MaxSoundVolume, s.SoundVolume, 0)
	require.Equal(t, MaxPreWarningLead, s.PreWarningLead)

	s = Settings{SoundVolume: math.NaN(), PreWarningLead: 17}.Clamp()
	require.InDelta(t, DefaultSoundVolume, s.SoundVolume, 0)
	require.Equal(t, int64(17), s.PreWarningLead)

	require.Equal(t, DefaultSettings(), DefaultSettings().Clamp())
}

// TestTimingThresholds checks the threshold formula in both clock modes.
func TestTimingThresholds(t *testing.T) {
	t.Parallel()

	ticks := DefaultTiming()

	terminal := ticks.TerminalThreshold(0)
	require.Equal(t, Reading(200), terminal)
	require.Equal(t, Reading(183), ticks.PreWarningThreshold(terminal, 17))
	require.Equal(t, Reading(200), ticks.PreWarningThreshold(terminal, -3))
	require.Equal(t, Reading(299), ticks.TerminalThreshold(99))
	require.Equal(t, Reading(25), ticks.CooldownWindow())

	wall := Timing{Mode: ClockWallTime, CooldownTicks: 25}

	terminal = wall.TerminalThreshold(50)
	require.Equal(t, Reading(150_000), terminal)
	require.Equal(t, Reading(140_000), wall.PreWarningThreshold(terminal, 10))
	require.Equal(t, Reading(15_000), wall.CooldownWindow())

	// A lead longer than the burn time is due immediately.
	require.LessOrEqual(t, ticks.PreWarningThreshold(ticks.TerminalThreshold(0), 500), Reading(0))
}

// TestTimingNormalize checks defaults and rejection of unknown values.
func TestTimingNormalize(t *testing.T) {
	t.Parallel()

	got, err := Timing{}.Normalize()
	require.NoError(t, err)
	require.Equal(t, DefaultTiming(), got)

	_, err = Timing{Mode: "sundial"}.Normalize()
	require.ErrorIs(t, err, ErrUnknownClockMode)

	_, err = Timing{Gating: "sometimes"}.Normalize()
	require.ErrorIs(t, err, ErrUnknownGating)

	_, err = Timing{Eviction: "never"}.Normalize()
	require.ErrorIs(t, err, ErrUnknownEviction)
}

// TestAlertString checks that log rendering includes the kind-specific payload.
func TestAlertString(t *testing.T) {
	t.Parallel()

	pre := Alert{Kind: AlertPreWarning, EntityID: "x", At: 183, Message: "soon"}
	require.Contains(t, pre.String(), `message="soon"`)

	terminal := Alert{Kind: AlertTerminal, EntityID: "x", At: 200, Volume: -20}
	require.Contains(t, terminal.String(), "volume=-20.0dB")
}
