package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/oshokin/burner-alarm/internal/clock"
	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/metrics"
)

// ResetSource names what triggered a reset. It is the metric label, so the
// set is fixed; free-text reasons only reach the log.
type ResetSource string

const (
	// ResetRPC is a reset requested over the control API.
	ResetRPC ResetSource = "rpc"
	// ResetHostExit is a reset after the host process disappeared.
	ResetHostExit ResetSource = "host_exit"
	// ResetShutdown is the reset performed when the server stops.
	ResetShutdown ResetSource = "shutdown"
	// ResetReplay is a reset event in a replayed scenario.
	ResetReplay ResetSource = "replay"
)

// Dispatcher accepts fired alerts for delivery. Submit must not block.
type Dispatcher interface {
	Submit(ctx context.Context, alert alarm.Alert)
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	// Now is the clock reading when the status was taken.
	Now alarm.Reading
	// SkillLevel is the current skill level.
	SkillLevel int64
	// TerminalThreshold is the elapsed readings for the terminal alert.
	TerminalThreshold alarm.Reading
	// PreWarningThreshold is the elapsed readings for the pre-warning.
	PreWarningThreshold alarm.Reading
	// Settings are the active alarm settings.
	Settings alarm.Settings
	// Timing is the active timing policy.
	Timing alarm.Timing
	// Entities are the tracked entities, oldest first.
	Entities []alarm.Entity
	// Ticks is the number of evaluation passes so far.
	Ticks uint64
}

// Scheduler guards the tracker and evaluator with one lock and connects
// them to the clock, skill source and dispatcher.
type Scheduler struct {
	// mu serializes signals and evaluation passes.
	mu sync.Mutex
	// tracker is the active set.
	tracker *Tracker
	// evaluator holds gating state.
	evaluator *Evaluator
	// clock supplies readings.
	clock clock.Clock
	// skill supplies the skill level.
	skill clock.SkillSource
	// timing is the normalized timing policy.
	timing alarm.Timing
	// settings are the clamped alarm settings.
	settings alarm.Settings
	// dispatcher receives fired alerts; nil drops them after logging.
	dispatcher Dispatcher
	// metrics records counters.
	metrics *metrics.Metrics
	// message is the pre-warning text.
	message string
	// ticks counts evaluation passes.
	ticks uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatcher routes fired alerts to d.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) {
		s.dispatcher = d
	}
}

// WithMetrics records counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// WithMessage overrides the pre-warning text.
func WithMessage(message string) Option {
	return func(s *Scheduler) {
		if message != "" {
			s.message = message
		}
	}
}

// New creates a scheduler. The timing policy is normalized and settings
// are clamped.
func New(
	clk clock.Clock,
	skill clock.SkillSource,
	timing alarm.Timing,
	settings alarm.Settings,
	opts ...Option,
) (*Scheduler, error) {
	timing, err := timing.Normalize()
	if err != nil {
		return nil, fmt.Errorf("normalize timing: %w", err)
	}

	s := &Scheduler{
		tracker:  NewTracker(),
		clock:    clk,
		skill:    skill,
		timing:   timing,
		settings: settings.Clamp(),
		message:  alarm.DefaultPreWarningMessage,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.evaluator = NewEvaluator(timing, s.message, s.metrics)

	return s, nil
}

// OnStart begins tracking id at the current reading.
func (s *Scheduler) OnStart(ctx context.Context, id alarm.EntityID) {
	s.mu.Lock()
	now := s.clock.Now()
	s.tracker.Start(id, now)
	tracked := s.tracker.Len()
	s.mu.Unlock()

	s.metrics.Tracked(tracked)
	logger.DebugKV(ctx, "Burner lit", "entity", id, "started_at", now, "tracked", tracked)
}

// OnEnd stops tracking id. Unknown ids are ignored.
func (s *Scheduler) OnEnd(ctx context.Context, id alarm.EntityID) bool {
	s.mu.Lock()
	removed := s.tracker.End(id)
	s.evaluator.EntityRemoved(s.tracker)
	tracked := s.tracker.Len()
	s.mu.Unlock()

	s.metrics.Tracked(tracked)

	if removed {
		logger.DebugKV(ctx, "Burner gone", "entity", id, "tracked", tracked)
	}

	return removed
}

// OnReset drops every tracked entity and all gating state.
func (s *Scheduler) OnReset(ctx context.Context, source ResetSource, reason string) {
	s.mu.Lock()
	dropped := s.tracker.Reset()
	s.evaluator.Reset()
	s.mu.Unlock()

	s.metrics.Tracked(0)
	s.metrics.Reset(string(source))

	if dropped > 0 {
		logger.InfoKV(ctx, "Cleared tracked burners", "source", source, "reason", reason, "dropped", dropped)
	}
}

// OnTick runs one evaluation pass and dispatches the alerts it produced.
// The returned slice is the same set of alerts, for callers that report them.
func (s *Scheduler) OnTick(ctx context.Context) []alarm.Alert {
	s.mu.Lock()
	now := s.clock.Now()
	skill := s.skill.SkillLevel()
	alerts := s.evaluator.Evaluate(now, skill, s.settings, s.tracker)
	tracked := s.tracker.Len()
	s.ticks++
	s.mu.Unlock()

	s.metrics.Tick()
	s.metrics.Tracked(tracked)

	for _, alert := range alerts {
		logger.InfoKV(ctx, "Alert fired", "kind", alert.Kind, "entity", alert.EntityID, "at", alert.At)

		if s.dispatcher != nil {
			s.dispatcher.Submit(ctx, alert)
		}
	}

	return alerts
}

// TickAt advances the clock for one host tick and evaluates. A positive
// hostTick is taken as the host's own tick number when the clock can follow
// it; otherwise an advancing clock moves one step. Wall clocks are left
// untouched.
func (s *Scheduler) TickAt(ctx context.Context, hostTick int64) []alarm.Alert {
	type tickSetter interface {
		Set(tick int64)
	}

	if setter, ok := s.clock.(tickSetter); ok && hostTick > 0 {
		setter.Set(hostTick)
	} else if advancer, ok := s.clock.(clock.Advancer); ok {
		advancer.Advance()
	}

	return s.OnTick(ctx)
}

// UpdateSettings replaces the alarm settings; they apply from the next pass.
func (s *Scheduler) UpdateSettings(settings alarm.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings.Clamp()
}

// Settings returns the active settings.
func (s *Scheduler) Settings() alarm.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// Status returns a snapshot of the scheduler.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	skill := s.skill.SkillLevel()
	terminal := s.timing.TerminalThreshold(skill)

	return Status{
		Now:                 s.clock.Now(),
		SkillLevel:          skill,
		TerminalThreshold:   terminal,
		PreWarningThreshold: s.timing.PreWarningThreshold(terminal, s.settings.PreWarningLead),
		Settings:            s.settings,
		Timing:              s.timing,
		Entities:            s.tracker.Entities(),
		Ticks:               s.ticks,
	}
}
