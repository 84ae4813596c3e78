package alarm

import "fmt"

// AlertKind names an alert class.
type AlertKind string

const (
	// AlertPreWarning is the text notification sent ahead of the terminal threshold.
	AlertPreWarning AlertKind = "pre_warning"
	// AlertTerminal is the sound played when the terminal threshold is reached.
	AlertTerminal AlertKind = "terminal"
)

// Alert is a fire command produced by one evaluation pass.
type Alert struct {
	// Kind is the alert class.
	Kind AlertKind
	// EntityID is the entity whose crossing caused the alert.
	EntityID EntityID
	// At is the clock reading of the evaluation pass.
	At Reading
	// Message is the notification text (AlertPreWarning only).
	Message string
	// Volume is the playback volume in dB (AlertTerminal only).
	Volume float64
}

// String renders the alert for logs.
func (a Alert) String() string {
	switch a.Kind {
	case AlertPreWarning:
		return fmt.Sprintf("%s entity=%s at=%d message=%q", a.Kind, a.EntityID, a.At, a.Message)
	case AlertTerminal:
		return fmt.Sprintf("%s entity=%s at=%d volume=%.1fdB", a.Kind, a.EntityID, a.At, a.Volume)
	default:
		return fmt.Sprintf("%s entity=%s at=%d", a.Kind, a.EntityID, a.At)
	}
}
