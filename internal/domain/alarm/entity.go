package alarm

// EntityID identifies one live burner instance. The host assigns it and
// must not reuse an ID for two objects that are alive at the same time.
type EntityID string

// Reading is a clock reading in clock units: game ticks in tick mode,
// milliseconds in wall-clock mode.
type Reading int64

// Entity is a burner being tracked since it was lit.
type Entity struct {
	// ID is the host-assigned instance identifier.
	ID EntityID
	// StartedAt is the clock reading at which tracking began.
	StartedAt Reading
	// PreWarned is set once the pre-warning fired for this entity.
	PreWarned bool
	// TerminalFired is set once the terminal alert fired for this entity.
	TerminalFired bool
}

// Elapsed returns the readings passed since the entity was lit.
// It is negative when the clock moved backwards.
func (e *Entity) Elapsed(now Reading) Reading {
	return now - e.StartedAt
}
