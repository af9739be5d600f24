package graph

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/ctxlog"
	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
	"github.com/specialistvlad/nodeflow/internal/topologystore"
)

// Manager provides a high-level, thread-safe interface to the execution graph
// by composing and orchestrating lower-level storage backends.
type Manager struct {
	topology  topologystore.Store
	nodeState nodestore.Store
}

// New creates a new graph manager.
func New(ts topologystore.Store, ns nodestore.Store) Graph {
	return &Manager{
		topology:  ts,
		nodeState: ns,
	}
}

func (m *Manager) Node(ctx context.Context, id string) (*model.Node, bool) {
	return m.topology.Node(ctx, id)
}

func (m *Manager) AllNodes(ctx context.Context) []*model.Node {
	return m.topology.AllNodes(ctx)
}

func (m *Manager) StartNode(ctx context.Context) (*model.Node, error) {
	return m.topology.FindStartNode(ctx)
}

func (m *Manager) Outgoing(ctx context.Context, id string) []model.Connection {
	return m.topology.OutgoingConnections(ctx, id)
}

func (m *Manager) Incoming(ctx context.Context, id string) []model.Connection {
	return m.topology.IncomingConnections(ctx, id)
}

func (m *Manager) ResolveEndpoint(ctx context.Context, nodeID, portID string) (*model.Port, error) {
	return m.topology.ResolveEndpoint(ctx, nodeID, portID)
}

func (m *Manager) NodeStatus(ctx context.Context, id string) model.Status {
	return m.nodeState.Get(ctx, id).Status
}

func (m *Manager) NodeRecord(ctx context.Context, id string) nodestore.Record {
	return m.nodeState.Get(ctx, id)
}

func (m *Manager) MarkRunning(ctx context.Context, id string) error {
	ctxlog.FromContext(ctx).Debug("Node running.", "node", id)
	return m.nodeState.SetStatus(ctx, id, model.StatusRunning)
}

func (m *Manager) MarkSucceeded(ctx context.Context, id string, output model.Payload) error {
	ctxlog.FromContext(ctx).Debug("Node succeeded.", "node", id)
	return m.nodeState.SetResult(ctx, id, model.StatusSuccess, output)
}

func (m *Manager) MarkFailed(ctx context.Context, id string, nodeErr error) error {
	ctxlog.FromContext(ctx).Debug("Node failed.", "node", id, "error", nodeErr)
	return m.nodeState.SetResult(ctx, id, model.StatusFailed, model.ErrorPayload(nodeErr))
}

func (m *Manager) ResetAll(ctx context.Context) error {
	nodes := m.topology.AllNodes(ctx)
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return m.nodeState.Reset(ctx, ids)
}

func (m *Manager) Snapshot(ctx context.Context) map[string]nodestore.Record {
	out := make(map[string]nodestore.Record)
	for _, n := range m.topology.AllNodes(ctx) {
		out[n.ID] = m.nodeState.Get(ctx, n.ID)
	}
	return out
}

func (m *Manager) Subscribe(obs nodestore.Observer) {
	m.nodeState.Subscribe(obs)
}
