// Package scheduler implements the burner alarm core.
//
// Tracker owns the active set of lit burners. Evaluator runs once per tick,
// compares each burner's elapsed time with the pre-warning and terminal
// thresholds and applies cooldown or per-cycle gating. Scheduler serializes
// both behind a single lock and hands fired alerts to a dispatcher after the
// lock is released.
package scheduler
