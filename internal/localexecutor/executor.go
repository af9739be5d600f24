// Package localexecutor provides a concrete, in-process implementation of the
// executor.Executor interface.
package localexecutor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/executor"
	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Executor implements the executor.Executor interface for local execution.
type Executor struct {
	graph    graph.Graph
	registry *registry.Registry
}

// New creates a new local executor.
func New(g graph.Graph, reg *registry.Registry) executor.Executor {
	return &Executor{
		graph:    g,
		registry: reg,
	}
}

// Execute marks the node running, calls the handler registered for its kind
// and records the outcome.
func (e *Executor) Execute(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.ID, "kind", n.Kind)

	if err := e.graph.MarkRunning(ctx, n.ID); err != nil {
		return nil, fmt.Errorf("failed to mark node '%s' running: %w", n.ID, err)
	}

	res, err := e.call(ctx, n, input)
	if err != nil {
		logger.Warn("Node execution failed.", "error", err)
		if markErr := e.graph.MarkFailed(ctx, n.ID, err); markErr != nil {
			logger.Error("Failed to record node failure.", "error", markErr)
		}
		return nil, &model.ExecutionError{NodeID: n.ID, Kind: n.Kind, Err: err}
	}

	if err := e.graph.MarkSucceeded(ctx, n.ID, res.Output); err != nil {
		return nil, fmt.Errorf("failed to mark node '%s' succeeded: %w", n.ID, err)
	}
	logger.Debug("Node execution succeeded.", "port", res.Port)
	return res, nil
}

func (e *Executor) call(ctx context.Context, n *model.Node, input model.Payload) (res *registry.Result, err error) {
	handler, ok := e.registry.Handler(n.Kind)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", model.ErrNoHandler, n.Kind)
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("handler panicked: %v", r)
		}
	}()

	res, err = handler(ctx, n, input)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &registry.Result{}
	}
	if res.Output == nil {
		res.Output = model.Payload{}
	}
	if res.Port != "" {
		if _, ok := n.OutputPort(res.Port); !ok {
			return nil, fmt.Errorf("handler selected output '%s': %w", res.Port, model.ErrPortNotFound)
		}
	}
	return res, nil
}
