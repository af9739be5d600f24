// Package session defines the core interfaces for creating and managing an
// execution session. It abstracts away the details of local vs. remote execution.
package session

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
)

// SessionFactory creates an execution Session. Different implementations can
// support various backends, such as local or distributed execution.
type SessionFactory interface {
	NewSession(
		ctx context.Context,
		wf *model.Workflow,
		reg *registry.Registry,
		opts scheduler.Options,
	) (Session, error)
}

// Session owns one loaded workflow and the components wired around it. A
// session may run its workflow any number of times.
type Session interface {
	GetScheduler() (scheduler.Scheduler, error)
	// GetGraph exposes the graph so observers can subscribe to state changes.
	GetGraph() graph.Graph
	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
