// Package executor defines the interface for running a single node.
package executor

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/registry"
)

// Executor runs one node against one input payload. It owns the node's
// status transitions: Running before the handler starts, then Success with
// the handler's output or Failed with {"error": msg}.
//
// A handler failure is returned as a *model.ExecutionError. It has already
// been recorded on the node when Execute returns, so callers only decide
// whether to continue the branch.
type Executor interface {
	Execute(ctx context.Context, n *model.Node, input model.Payload) (*registry.Result, error)
}
