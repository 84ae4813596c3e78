// Package clock provides the readings and the skill level the scheduler
// samples on every pass.
//
// TickCounter follows the host's game tick, WallClock reads milliseconds
// from the system clock, and Manual is a hand-driven source for replays and
// tests. SkillLevel holds the last level reported by the host.
package clock
