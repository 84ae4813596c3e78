package clock

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// Clock returns the current reading.
type Clock interface {
	Now() alarm.Reading
}

// Advancer is a clock that a fixed-cadence driver moves forward one tick at a time.
type Advancer interface {
	Clock
	Advance()
}

// TickCounter counts game ticks. The host either reports its own tick
// number through Set or lets a driver Advance the counter.
type TickCounter struct {
	// ticks is the current tick number.
	ticks atomic.Int64
}

// NewTickCounter creates a counter starting at tick zero.
func NewTickCounter() *TickCounter {
	return new(TickCounter)
}

// Now returns the current tick number.
func (c *TickCounter) Now() alarm.Reading {
	return alarm.Reading(c.ticks.Load())
}

// Advance moves the counter forward by one tick.
func (c *TickCounter) Advance() {
	c.ticks.Add(1)
}

// Set jumps the counter to the host-reported tick number.
func (c *TickCounter) Set(tick int64) {
	c.ticks.Store(tick)
}

// WallClock reads Unix milliseconds. It follows system clock adjustments,
// so readings can move backwards.
type WallClock struct {
	// now returns the current time.
	now func() time.Time
}

// NewWallClock creates a wall clock backed by time.Now.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Now}
}

// Now returns the current Unix time in milliseconds.
func (c *WallClock) Now() alarm.Reading {
	return alarm.Reading(c.now().UnixMilli())
}

// Manual is a clock moved by hand.
type Manual struct {
	// mu protects reading.
	mu sync.RWMutex
	// reading is the current reading.
	reading alarm.Reading
	// step is the amount Advance adds.
	step alarm.Reading
}

// NewManual creates a manual clock at start that advances by step.
func NewManual(start, step alarm.Reading) *Manual {
	if step <= 0 {
		step = 1
	}

	return &Manual{
		reading: start,
		step:    step,
	}
}

// Now returns the current reading.
func (m *Manual) Now() alarm.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.reading
}

// Advance adds one step to the reading.
func (m *Manual) Advance() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reading += m.step
}

// Set jumps to the given reading, backwards included.
func (m *Manual) Set(reading alarm.Reading) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reading = reading
}

// New returns the production clock for a mode. Tick mode yields a
// *TickCounter, wall-clock mode a *WallClock.
//
//nolint:ireturn // Callers pick behavior by mode; concrete types are reachable via type assertion.
func New(mode alarm.ClockMode) (Clock, error) {
	switch mode {
	case alarm.ClockTicks:
		return NewTickCounter(), nil
	case alarm.ClockWallTime:
		return NewWallClock(), nil
	default:
		return nil, fmt.Errorf("%w: %q", alarm.ErrUnknownClockMode, mode)
	}
}
