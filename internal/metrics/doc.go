// Package metrics exposes Prometheus counters for the burner alarm.
//
// A nil *Metrics is valid and records nothing, so components can be built
// without a registry in tests and replays.
package metrics
