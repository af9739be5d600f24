// Package start implements the start node: the entry point of every run.
package start

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunStart emits the run's seed payload.
func OnRunStart(ctx context.Context, n *model.Node, seed model.Payload) (*registry.Result, error) {
	ctxlog.FromContext(ctx).Debug("Emitting seed payload.", "node", n.ID, "keys", len(seed))
	out := seed.Clone()
	if out == nil {
		out = model.Payload{}
	}
	return &registry.Result{Output: out}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(model.KindStart, OnRunStart)
}
