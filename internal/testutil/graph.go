package testutil

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodeflow/internal/graph"
	"github.com/specialistvlad/nodeflow/internal/inmemorystore"
	"github.com/specialistvlad/nodeflow/internal/inmemorytopology"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/stretchr/testify/require"
)

// WorkflowBuilder assembles a model.Workflow in tests.
type WorkflowBuilder struct {
	t *testing.T
	w *model.Workflow
}

// NewWorkflow starts a workflow with the given name.
func NewWorkflow(t *testing.T, name string) *WorkflowBuilder {
	t.Helper()
	return &WorkflowBuilder{t: t, w: model.NewWorkflow(name)}
}

// Node adds a node with default ports.
func (b *WorkflowBuilder) Node(id string, kind model.Kind, props model.Properties) *WorkflowBuilder {
	b.w.Nodes = append(b.w.Nodes, model.NewNode(id, kind, props))
	return b
}

// Connect adds a connection between two "node.port" endpoints.
func (b *WorkflowBuilder) Connect(from, to string) *WorkflowBuilder {
	b.t.Helper()
	require.NoError(b.t, b.w.Connect(from, to))
	return b
}

// Build returns the workflow.
func (b *WorkflowBuilder) Build() *model.Workflow {
	return b.w
}

// NewGraph loads w into fresh in-memory stores.
func NewGraph(t *testing.T, w *model.Workflow) graph.Graph {
	t.Helper()
	ctx := context.Background()

	topo := inmemorytopology.New()
	for _, n := range w.Nodes {
		require.NoError(t, topo.AddNode(ctx, n))
	}
	for _, c := range w.Connections {
		require.NoError(t, topo.AddConnection(ctx, c))
	}
	return graph.New(topo, inmemorystore.New())
}
