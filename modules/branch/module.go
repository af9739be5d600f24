// Package branch implements the branch node. It routes its input unchanged to
// either the "true" or the "false" output, depending on a comparison rule.
package branch

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/condition"
	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// OnRunBranch evaluates the node's condition and selects the port to follow.
func OnRunBranch(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error) {
	port, err := condition.SelectPort(n, input)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Branch evaluated.", "node", n.ID, "port", port)

	out := input.Clone()
	if out == nil {
		out = model.Payload{}
	}
	return &registry.Result{Output: out, Port: port}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(model.KindBranch, OnRunBranch)
}
