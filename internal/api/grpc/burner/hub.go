package burner

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
)

// DefaultHubBuffer is the per-subscriber backlog.
const DefaultHubBuffer = 16

// errSubscriberLagging is returned when a subscriber's backlog is full.
var errSubscriberLagging = errors.New("alert watcher is lagging, alert dropped")

// Hub fans delivered alerts out to WatchAlerts streams. It is a sink
// observer, so it sees alerts after the dispatcher accepted them.
type Hub struct {
	// mu guards subscribers.
	mu sync.Mutex
	// subscribers are the open streams.
	subscribers map[chan alarm.Alert]struct{}
	// buffer is the channel capacity per subscriber.
	buffer int
	// closed is set once Close was called.
	closed bool
}

// NewHub creates a hub with the given per-subscriber backlog.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultHubBuffer
	}

	return &Hub{
		subscribers: make(map[chan alarm.Alert]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a subscriber. The returned function unsubscribes
// and must be called once. The channel is closed when the hub closes; a
// hub that is already closed hands out a closed channel.
func (h *Hub) Subscribe() (<-chan alarm.Alert, func()) {
	ch := make(chan alarm.Alert, h.buffer)

	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.subscribers[ch] = struct{}{}
	}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subscribers, ch)
		h.mu.Unlock()
	}
}

// Close closes every subscriber channel so open streams can finish.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.closed = true

	for ch := range h.subscribers {
		close(ch)
	}

	clear(h.subscribers)
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// Observe sends the alert to every subscriber without blocking.
func (h *Hub) Observe(_ context.Context, alert alarm.Alert) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var lagging bool

	for ch := range h.subscribers {
		select {
		case ch <- alert:
		default:
			lagging = true
		}
	}

	if lagging {
		return errSubscriberLagging
	}

	return nil
}
