package replay

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// EventType names a scripted signal.
type EventType string

const (
	// EventStart lights a burner.
	EventStart EventType = "start"
	// EventEnd removes a burner.
	EventEnd EventType = "end"
	// EventReset clears every burner.
	EventReset EventType = "reset"
	// EventLevel changes the skill level.
	EventLevel EventType = "level"
)

// Event is one scripted signal.
type Event struct {
	// Tick is when the event happens, before that tick's pass.
	Tick int64 `yaml:"tick"`
	// Type is the signal.
	Type EventType `yaml:"type"`
	// Entity is the burner for start and end.
	Entity alarm.EntityID `yaml:"entity,omitempty"`
	// Value is the skill level for level.
	Value int64 `yaml:"value,omitempty"`
	// Reason is logged for reset.
	Reason string `yaml:"reason,omitempty"`
}

// Scenario is a replay script.
type Scenario struct {
	// Ticks is the last tick evaluated.
	Ticks int64 `yaml:"ticks"`
	// SkillLevel is the skill level at tick zero.
	SkillLevel int64 `yaml:"skill_level"`
	// Alarm are the alarm settings.
	Alarm alarm.Settings `yaml:"alarm"`
	// Timing is the timing policy.
	Timing alarm.Timing `yaml:"timing"`
	// Message overrides the pre-warning text.
	Message string `yaml:"message,omitempty"`
	// Events are the scripted signals.
	Events []Event `yaml:"events"`
}

var (
	// errNoTicks is returned when a scenario has nothing to run.
	errNoTicks = errors.New("ticks must be positive")
	// errUnknownEvent is returned for an unrecognized event type.
	errUnknownEvent = errors.New("unknown event type")
	// errEventOutOfRange is returned for an event outside [0, ticks].
	errEventOutOfRange = errors.New("event tick out of range")
	// errEntityRequired is returned for start or end without an entity.
	errEntityRequired = errors.New("entity is required")
	// errNegativeLevel is returned for a negative skill level.
	errNegativeLevel = errors.New("skill level must not be negative")
)

// Load reads and validates a scenario file. Omitted alarm settings keep
// their defaults.
func Load(path string) (*Scenario, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	return Parse(contents)
}

// Parse decodes and validates a scenario.
func Parse(contents []byte) (*Scenario, error) {
	s := &Scenario{
		Alarm: alarm.DefaultSettings(),
	}

	if err := yaml.Unmarshal(contents, s); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the scenario, normalizes timing and orders events by
// tick, keeping file order within a tick.
func (s *Scenario) Validate() error {
	if s.Ticks <= 0 {
		return errNoTicks
	}

	if s.SkillLevel < 0 {
		return errNegativeLevel
	}

	timing, err := s.Timing.Normalize()
	if err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	s.Timing = timing
	s.Alarm = s.Alarm.Clamp()

	for i, e := range s.Events {
		if e.Tick < 0 || e.Tick > s.Ticks {
			return fmt.Errorf("event %d: %w: %d", i, errEventOutOfRange, e.Tick)
		}

		switch e.Type {
		case EventStart, EventEnd:
			if e.Entity == "" {
				return fmt.Errorf("event %d: %s: %w", i, e.Type, errEntityRequired)
			}
		case EventReset:
		case EventLevel:
			if e.Value < 0 {
				return fmt.Errorf("event %d: %w", i, errNegativeLevel)
			}
		default:
			return fmt.Errorf("event %d: %w: %q", i, errUnknownEvent, e.Type)
		}
	}

	slices.SortStableFunc(s.Events, func(a, b Event) int {
		return cmp.Compare(a.Tick, b.Tick)
	})

	return nil
}
