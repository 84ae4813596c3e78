package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/metrics"
)

const (
	// DefaultWorkers is the number of delivery goroutines.
	DefaultWorkers = 2
	// DefaultQueueSize is the number of alerts waiting for delivery.
	DefaultQueueSize = 32
	// DefaultTimeout bounds a single delivery.
	DefaultTimeout = 10 * time.Second
)

// job is one queued delivery.
type job struct {
	// ctx carries the submitter's logger but not its cancellation.
	ctx context.Context //nolint:containedctx // Jobs outlive the submitting call.
	// alert is the alert to deliver.
	alert alarm.Alert
}

// Dispatcher delivers alerts asynchronously.
type Dispatcher struct {
	// notifier delivers pre-warnings.
	notifier Notifier
	// player plays terminal alerts.
	player Player
	// observers see every alert.
	observers []Observer
	// workers is the number of delivery goroutines.
	workers int
	// queueSize is the capacity of queue.
	queueSize int
	// timeout bounds a single delivery.
	timeout time.Duration
	// metrics counts outcomes.
	metrics *metrics.Metrics

	// queue holds pending deliveries.
	queue chan job
	// mu guards closed against concurrent Submit and Close.
	mu sync.RWMutex
	// closed is set once Close was called.
	closed bool
	// wg waits for the workers.
	wg sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithObservers adds observers that see every alert.
func WithObservers(observers ...Observer) Option {
	return func(d *Dispatcher) {
		d.observers = append(d.observers, observers...)
	}
}

// WithWorkers sets the number of delivery goroutines.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets how many alerts may wait for delivery.
func WithQueueSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithTimeout bounds a single delivery.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithMetrics counts delivery outcomes into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher starts a dispatcher. Either sink may be nil, in which case
// alerts of that kind are skipped. Call Close to stop the workers.
func NewDispatcher(notifier Notifier, player Player, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		notifier:  notifier,
		player:    player,
		workers:   DefaultWorkers,
		queueSize: DefaultQueueSize,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.queue = make(chan job, d.queueSize)

	d.wg.Add(d.workers)

	for range d.workers {
		go d.work()
	}

	return d
}

// Submit queues an alert without blocking. When the queue is full or the
// dispatcher is closed the alert is dropped and the drop is logged.
func (d *Dispatcher) Submit(ctx context.Context, alert alarm.Alert) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.report(ctx, alert, OutcomeDropped, nil)

		return
	}

	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), alert: alert}:
	default:
		d.report(ctx, alert, OutcomeDropped, nil)
	}
}

// Close stops accepting alerts, delivers what is queued and waits for the workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()

		return
	}

	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

// work delivers queued jobs until the queue is closed.
func (d *Dispatcher) work() {
	defer d.wg.Done()

	for j := range d.queue {
		d.deliver(j)
	}
}

// deliver routes one alert to its sink and then to the observers.
func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.timeout)
	defer cancel()

	var (
		outcome = OutcomeSkipped
		err     error
	)

	switch {
	case j.alert.Kind == alarm.AlertPreWarning && d.notifier != nil:
		err = guard(func() error { return d.notifier.Notify(ctx, j.alert.Message) })
		outcome = outcomeOf(err)
	case j.alert.Kind == alarm.AlertTerminal && d.player != nil:
		err = guard(func() error { return d.player.Play(ctx, j.alert.Volume) })
		outcome = outcomeOf(err)
	}

	d.report(ctx, j.alert, outcome, err)

	for _, observer := range d.observers {
		if err := guard(func() error { return observer.Observe(ctx, j.alert) }); err != nil {
			logger.WarnKV(ctx, "Alert observer failed", "kind", j.alert.Kind, "entity", j.alert.EntityID, "error", err)
		}
	}
}

// report logs and counts an outcome. It is the only consumer of Outcome.
func (d *Dispatcher) report(ctx context.Context, alert alarm.Alert, outcome Outcome, err error) {
	d.metrics.Delivery(string(alert.Kind), outcome.String())

	switch outcome {
	case OutcomeFailed:
		logger.WarnKV(ctx, "Alert delivery failed", "kind", alert.Kind, "entity", alert.EntityID, "error", err)
	case OutcomeDropped:
		logger.WarnKV(ctx, "Alert dropped", "kind", alert.Kind, "entity", alert.EntityID)
	case OutcomeDelivered, OutcomeSkipped:
		logger.DebugKV(ctx, "Alert handled", "kind", alert.Kind, "entity", alert.EntityID, "outcome", outcome.String())
	}
}

// outcomeOf maps a sink error to an outcome.
func outcomeOf(err error) Outcome {
	if err != nil {
		return OutcomeFailed
	}

	return OutcomeDelivered
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panic: %v", r)
		}
	}()

	return fn()
}
