// Package alarm contains core domain types for the burner alarm.
//
// It defines the tracked Entity, the user-facing Settings with their
// clamping rules, the Timing policy that turns a skill level into reading
// thresholds, and the Alert command emitted by the evaluator.
package alarm
