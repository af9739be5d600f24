package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
)

// Scheduler runs a workflow to completion.
type Scheduler interface {
	// RunWorkflow executes the graph from its start node with seed as the
	// start node's input. It returns when every reachable branch has
	// terminated.
	//
	// A configuration error (no or several start nodes, a kind without a
	// handler) or a cycle is returned before any node status changes. Node
	// failures are not errors; they are visible in the report.
	RunWorkflow(ctx context.Context, seed model.Payload) (*Report, error)
}

// Report is the outcome of one run.
type Report struct {
	RunID      uuid.UUID                   `json:"runId" msgpack:"runId"`
	Workflow   string                      `json:"workflow" msgpack:"workflow"`
	StartedAt  time.Time                   `json:"startedAt" msgpack:"startedAt"`
	FinishedAt time.Time                   `json:"finishedAt" msgpack:"finishedAt"`
	Nodes      map[string]nodestore.Record `json:"nodes" msgpack:"nodes"`
}

// Duration is the wall-clock time of the run.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Count returns how many nodes ended the run with the given status.
func (r *Report) Count(status model.Status) int {
	n := 0
	for _, rec := range r.Nodes {
		if rec.Status == status {
			n++
		}
	}
	return n
}

type runIDKey struct{}

// WithRunID returns a copy of ctx carrying the id of the current run.
func WithRunID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the id of the run ctx belongs to. Store observers
// use it to tag events.
func RunIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runIDKey{}).(uuid.UUID)
	return id, ok
}
