// Package localsession provides a concrete implementation of the session.Session
// and session.SessionFactory interfaces for local, in-process execution.
package localsession

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/inmemorystore"
	"github.com/specialistvlad/nodeflow/internal/inmemorytopology"
	"github.com/specialistvlad/nodeflow/internal/localexecutor"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
	"github.com/specialistvlad/nodeflow/internal/scheduler"
	"github.com/specialistvlad/nodeflow/internal/session"
)

// SessionFactory implements session.SessionFactory for local runs.
type SessionFactory struct {
	// StoreOptions are passed to the in-memory node store.
	StoreOptions []inmemorystore.Option
}

// NewSession validates the workflow, loads it into in-memory stores and
// wires the executor and scheduler around them.
func (f *SessionFactory) NewSession(
	ctx context.Context,
	wf *model.Workflow,
	reg *registry.Registry,
	opts scheduler.Options,
) (session.Session, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating local session.", "workflow", wf.Name, "nodes", len(wf.Nodes), "connections", len(wf.Connections))

	if err := wf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow '%s': %w", wf.Name, err)
	}

	// --- This is where the dependency injection wiring happens ---
	topoStore := inmemorytopology.New()
	for _, n := range wf.Nodes {
		if err := topoStore.AddNode(ctx, n); err != nil {
			return nil, fmt.Errorf("failed to add node '%s': %w", n.ID, err)
		}
	}
	for _, c := range wf.Connections {
		if err := topoStore.AddConnection(ctx, c); err != nil {
			return nil, fmt.Errorf("failed to add connection %s: %w", c, err)
		}
	}
	nodeStore := inmemorystore.New(f.StoreOptions...)
	g := graph.New(topoStore, nodeStore)
	exec := localexecutor.New(g, reg)
	if opts.Workflow == "" {
		opts.Workflow = wf.Name
	}
	sched := scheduler.New(g, exec, reg, opts)
	// --- End of dependency injection ---

	logger.Debug("Local session ready.")
	return &Session{
		graph:     g,
		scheduler: sched,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	graph     graph.Graph
	scheduler scheduler.Scheduler
}

// GetScheduler returns the scheduler that was created and wired up by the factory.
func (s *Session) GetScheduler() (scheduler.Scheduler, error) {
	return s.scheduler, nil
}

// GetGraph returns the session's graph.
func (s *Session) GetGraph() graph.Graph {
	return s.graph
}

// Close releases the session. In-memory stores need no cleanup.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Local session closed.")
	return nil
}
