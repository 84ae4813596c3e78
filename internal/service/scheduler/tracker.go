package scheduler

import (
	"cmp"
	"slices"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// Tracker holds the active set keyed by entity ID.
// It is not safe for concurrent use; Scheduler guards it.
type Tracker struct {
	// active maps each live entity to its tracking state.
	active map[alarm.EntityID]*alarm.Entity
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		active: make(map[alarm.EntityID]*alarm.Entity),
	}
}

// Start begins tracking id at the given reading. A second start for the same
// id replaces the first one, restarting its timer and clearing its flags.
func (t *Tracker) Start(id alarm.EntityID, now alarm.Reading) {
	t.active[id] = &alarm.Entity{
		ID:        id,
		StartedAt: now,
	}
}

// End stops tracking id and reports whether it was tracked.
func (t *Tracker) End(id alarm.EntityID) bool {
	if _, ok := t.active[id]; !ok {
		return false
	}

	delete(t.active, id)

	return true
}

// Reset drops every entity and returns how many were tracked.
func (t *Tracker) Reset() int {
	n := len(t.active)
	clear(t.active)

	return n
}

// Len returns the number of tracked entities.
func (t *Tracker) Len() int {
	return len(t.active)
}

// Entities returns copies of all tracked entities, oldest first.
func (t *Tracker) Entities() []alarm.Entity {
	live := t.ordered()
	result := make([]alarm.Entity, 0, len(live))

	for _, e := range live {
		result = append(result, *e)
	}

	return result
}

// ordered returns the live entities sorted by start reading, then ID, so a
// pass visits them in the same order every time.
func (t *Tracker) ordered() []*alarm.Entity {
	live := make([]*alarm.Entity, 0, len(t.active))
	for _, e := range t.active {
		live = append(live, e)
	}

	slices.SortFunc(live, func(a, b *alarm.Entity) int {
		return cmp.Or(cmp.Compare(a.StartedAt, b.StartedAt), cmp.Compare(a.ID, b.ID))
	})

	return live
}
