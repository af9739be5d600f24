package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
)

// EventRecorder collects status store events in the order they arrive.
type EventRecorder struct {
	mu     sync.Mutex
	events []nodestore.Event
}

// Observe implements nodestore.Observer.
func (r *EventRecorder) Observe(_ context.Context, ev nodestore.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of everything recorded so far.
func (r *EventRecorder) Events() []nodestore.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]nodestore.Event(nil), r.events...)
}

// Count returns how many times node id entered status.
func (r *EventRecorder) Count(id string, status model.Status) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.NodeID == id && ev.Record.Status == status {
			n++
		}
	}
	return n
}

// Changed reports whether any node left the idle status.
func (r *EventRecorder) Changed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Record.Status != model.StatusIdle {
			return true
		}
	}
	return false
}
