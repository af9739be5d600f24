// Package merge implements the merge node. The scheduler waits for every live
// input and hands the node their combined payload; the node passes it on.
package merge

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunMerge passes the combined payload through.
func OnRunMerge(ctx context.Context, n *model.Node, combined model.Payload) (*registry.Result, error) {
	if combined == nil {
		combined = model.Payload{}
	}
	return &registry.Result{Output: combined}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(model.KindMerge, OnRunMerge)
}
