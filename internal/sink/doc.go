// Package sink is the delivery boundary between the scheduler and the
// outside world.
//
// Dispatcher queues fired alerts and delivers them on worker goroutines to
// a Notifier (pre-warnings), a Player (terminal alerts) and any Observers.
// Delivery failures, panics included, end at this boundary: they are
// logged and counted, never reported back to the scheduler.
package sink
