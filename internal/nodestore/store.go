// Package nodestore defines the interface for storing and retrieving the
// dynamic, mutable execution state of nodes during a workflow run.
//
// # Why Node Store Exists
//
// The node store isolates **mutable execution state** (status, last output)
// from the **read-only graph shape** managed by topologystore. The scheduler
// and executor write to it while a run progresses; anything that displays
// progress (the status feed, the CLI report) reads from it at any time.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** once per session
//  2. **Reset** to idle for every node at the beginning of each run
//  3. **Mutated** continuously while nodes move through their statuses
//  4. **Snapshotted** when the run completes, to build the run report
//
// # State Transitions
//
// Nodes follow this lifecycle within a run:
//
//	Idle → Running → Success (with output) OR Failed (with {"error": msg})
//
// Nodes that are not reached during a run stay Idle.
package nodestore

import (
	"context"
	"time"

	"github.com/specialistvlad/nodeflow/internal/model"
)

// Record is the externally visible state of one node.
type Record struct {
	Status     model.Status  `json:"status" msgpack:"status"`
	LastOutput model.Payload `json:"lastOutput,omitempty" msgpack:"lastOutput,omitempty"`
	UpdatedAt  time.Time     `json:"updatedAt" msgpack:"updatedAt"`
}

// Event is delivered to observers after every write.
type Event struct {
	NodeID string
	Record Record
}

// Observer receives store events. Observers are called synchronously by the
// writing goroutine, after the write is visible, so they must not block for
// long and must tolerate concurrent invocation.
type Observer func(ctx context.Context, ev Event)

// Store is the interface for managing the mutable execution state of nodes.
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe. Writes to a single node must never be
// torn: a reader sees either the old status and output or the new ones. Two
// concurrent writers to the same node resolve as last-writer-wins.
type Store interface {
	// SetStatus updates the status of a node and keeps its last output.
	SetStatus(ctx context.Context, id string, status model.Status) error

	// SetResult atomically updates both the status and the last output.
	SetResult(ctx context.Context, id string, status model.Status, output model.Payload) error

	// Get returns the current record of a node. Unknown nodes are Idle with
	// no output.
	Get(ctx context.Context, id string) Record

	// Reset puts every given node back to Idle and clears its output.
	// Observers are notified for each node.
	Reset(ctx context.Context, ids []string) error

	// Snapshot returns a copy of every record written so far.
	Snapshot(ctx context.Context) map[string]Record

	// Subscribe registers an observer for all subsequent writes.
	Subscribe(obs Observer)
}
