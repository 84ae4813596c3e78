package clock

import "sync/atomic"

// SkillSource returns the skill level used in the burn-time formula.
type SkillSource interface {
	SkillLevel() int64
}

// SkillLevel stores the last level reported by the host.
type SkillLevel struct {
	level atomic.Int64
}

// NewSkillLevel creates a source holding the initial level.
func NewSkillLevel(initial int64) *SkillLevel {
	s := new(SkillLevel)
	s.level.Store(initial)

	return s
}

// SkillLevel returns the current level.
func (s *SkillLevel) SkillLevel() int64 {
	return s.level.Load()
}

// Set stores a newly reported level.
func (s *SkillLevel) Set(level int64) {
	s.level.Store(level)
}
