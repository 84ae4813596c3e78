package alarm

import "math"

// Settings are the user-facing alarm toggles. They are read-only while an
// evaluation pass runs.
type Settings struct {
	// SendPreWarning enables the text pre-warning.
	SendPreWarning bool `yaml:"send_pre_warning"`
	// PlayTerminalSound enables the audible terminal alert.
	PlayTerminalSound bool `yaml:"play_terminal_sound"`
	// SoundVolume is the alert volume in decibels.
	SoundVolume float64 `yaml:"sound_volume"`
	// PreWarningLead is how long before the terminal threshold the
	// pre-warning fires: ticks in tick mode, seconds in wall-clock mode.
	PreWarningLead int64 `yaml:"pre_warning_lead"`
}

const (
	// MinSoundVolume is the quietest accepted volume in dB.
	MinSoundVolume = -40.0
	// MaxSoundVolume is the loudest accepted volume in dB.
	MaxSoundVolume = 6.0
	// DefaultSoundVolume is the volume used when none is configured.
	DefaultSoundVolume = -20.0

	// MinPreWarningLead is the shortest accepted lead.
	MinPreWarningLead int64 = 0
	// MaxPreWarningLead is the longest accepted lead.
	MaxPreWarningLead int64 = 100
	// DefaultPreWarningLead is about ten seconds of game ticks.
	DefaultPreWarningLead int64 = 17

	// DefaultPreWarningMessage is the text sent with every pre-warning.
	DefaultPreWarningMessage = "A gilded altar burner will enter its random burnout phase soon!"
)

// DefaultSettings returns settings with both alert classes enabled.
func DefaultSettings() Settings {
	return Settings{
		SendPreWarning:    true,
		PlayTerminalSound: true,
		SoundVolume:       DefaultSoundVolume,
		PreWarningLead:    DefaultPreWarningLead,
	}
}

// Clamp returns a copy with every bounded field forced into its range.
// Out-of-range values are never an error.
func (s Settings) Clamp() Settings {
	if math.IsNaN(s.SoundVolume) {
		s.SoundVolume = DefaultSoundVolume
	}

	s.SoundVolume = min(max(s.SoundVolume, MinSoundVolume), MaxSoundVolume)
	s.PreWarningLead = min(max(s.PreWarningLead, MinPreWarningLead), MaxPreWarningLead)

	return s
}
