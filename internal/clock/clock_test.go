package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// TestTickCounter checks Advance and Set.
func TestTickCounter(t *testing.T) {
	t.Parallel()

	c := NewTickCounter()
	require.Equal(t, alarm.Reading(0), c.Now())

	c.Advance()
	c.Advance()
	require.Equal(t, alarm.Reading(2), c.Now())

	c.Set(1500)
	require.Equal(t, alarm.Reading(1500), c.Now())
}

// TestWallClock checks readings are Unix milliseconds of the injected time.
func TestWallClock(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	c := &WallClock{now: func() time.Time { return at }}

	require.Equal(t, alarm.Reading(at.UnixMilli()), c.Now())
	require.Positive(t, NewWallClock().Now())
}

// TestManual checks stepping and moving backwards.
func TestManual(t *testing.T) {
	t.Parallel()

	m := NewManual(10, 0)
	m.Advance()
	require.Equal(t, alarm.Reading(11), m.Now())

	m = NewManual(0, 600)
	m.Advance()
	m.Advance()
	require.Equal(t, alarm.Reading(1200), m.Now())

	m.Set(-5)
	require.Equal(t, alarm.Reading(-5), m.Now())
}

// TestNew checks the mode switch.
func TestNew(t *testing.T) {
	t.Parallel()

	c, err := New(alarm.ClockTicks)
	require.NoError(t, err)
	require.IsType(t, new(TickCounter), c)

	c, err = New(alarm.ClockWallTime)
	require.NoError(t, err)
	require.IsType(t, new(WallClock), c)

	_, err = New("sundial")
	require.ErrorIs(t, err, alarm.ErrUnknownClockMode)
}

// TestSkillLevel checks the stored level follows Set.
func TestSkillLevel(t *testing.T) {
	t.Parallel()

	s := NewSkillLevel(1)
	require.Equal(t, int64(1), s.SkillLevel())

	s.Set(99)
	require.Equal(t, int64(99), s.SkillLevel())
}
