package replay

import (
	"context"
	"fmt"

	"github.com/oshokin/burner-alarm/internal/clock"
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/metrics"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// DefaultResetReason is used for reset events without a reason.
const DefaultResetReason = "replay"

// Fired is an alert with the tick it fired on.
type Fired struct {
	// Tick is the replay tick.
	Tick int64
	// Alert is the alert.
	Alert alarm.Alert
}

// String renders the alert with its tick.
func (f Fired) String() string {
	return fmt.Sprintf("tick %d: %s", f.Tick, f.Alert)
}

// Result is the outcome of a replay.
type Result struct {
	// Fired are the alerts in firing order.
	Fired []Fired
	// Status is the scheduler state after the last tick.
	Status scheduler.Status
}

// Alerts returns only the alerts.
func (r *Result) Alerts() []alarm.Alert {
	alerts := make([]alarm.Alert, 0, len(r.Fired))
	for _, f := range r.Fired {
		alerts = append(alerts, f.Alert)
	}

	return alerts
}

// Option configures a run.
type Option func(*runOptions)

// runOptions holds optional collaborators.
type runOptions struct {
	// dispatcher also receives every alert.
	dispatcher scheduler.Dispatcher
	// metrics records scheduler counters.
	metrics *metrics.Metrics
}

// WithDispatcher forwards alerts to d as well, for replays with live sinks.
func WithDispatcher(d scheduler.Dispatcher) Option {
	return func(o *runOptions) {
		o.dispatcher = d
	}
}

// WithMetrics records scheduler counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *runOptions) {
		o.metrics = m
	}
}

// Run replays the scenario from tick zero to s.Ticks. At each tick the
// clock is moved first, then that tick's events apply, then the pass runs.
func Run(ctx context.Context, s *Scenario, opts ...Option) (*Result, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}

	step := s.Timing.TickLength()
	clk := clock.NewManual(0, step)
	skill := clock.NewSkillLevel(s.SkillLevel)
	sched, err := scheduler.New(clk, skill, s.Timing, s.Alarm,
		scheduler.WithDispatcher(o.dispatcher),
		scheduler.WithMetrics(o.metrics),
		scheduler.WithMessage(s.Message),
	)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	result := new(Result)
	events := s.Events

	for tick := int64(0); tick <= s.Ticks; tick++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("replay interrupted at tick %d: %w", tick, err)
		}

		clk.Set(alarm.Reading(tick) * step)

		for len(events) > 0 && events[0].Tick == tick {
			apply(ctx, sched, skill, events[0])
			events = events[1:]
		}

		for _, alert := range sched.OnTick(ctx) {
			result.Fired = append(result.Fired, Fired{Tick: tick, Alert: alert})
		}
	}

	result.Status = sched.Status()

	return result, nil
}

// apply delivers one event to the scheduler.
func apply(ctx context.Context, sched *scheduler.Scheduler, skill *clock.SkillLevel, e Event) {
	switch e.Type {
	case EventStart:
		sched.OnStart(ctx, e.Entity)
	case EventEnd:
		sched.OnEnd(ctx, e.Entity)
	case EventReset:
		reason := e.Reason
		if reason == "" {
			reason = DefaultResetReason
		}

		sched.OnReset(ctx, scheduler.ResetReplay, reason)
	case EventLevel:
		skill.Set(e.Value)
	}
}
