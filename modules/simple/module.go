// Package simple implements the simple node, a pass-through that stamps the
// payload with bookkeeping fields.
package simple

import (
	"context"
	"time"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Keys added to the payload.
const (
	KeyProcessedBy = "processedBy"
	KeyProcessedAt = "processedAt"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Now is the clock used for processedAt. Defaults to time.Now.
	Now func() time.Time
}

// OnRunSimple copies the input and records which node processed it and when.
func (m *Module) OnRunSimple(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}

	out := input.Clone()
	if out == nil {
		out = model.Payload{}
	}
	out[KeyProcessedBy] = n.ID
	out[KeyProcessedAt] = now().UTC().Format(time.RFC3339Nano)
	return &registry.Result{Output: out}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterHandler(model.KindSimple, m.OnRunSimple)
}
