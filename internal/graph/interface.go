package graph

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/nodestore"
)

// Graph is a unified interface for interacting with a workflow graph, combining
// static topology queries with dynamic state updates.
//
// # Usage Patterns
//
// **Scheduler** uses Graph to:
//   - Locate the entry point: StartNode()
//   - Walk the graph: Outgoing(), Incoming(), Node()
//   - Refuse hazardous shapes: DetectCycles(), Reachable()
//
// **Executor** uses Graph to:
//   - Update execution state: MarkRunning(), MarkSucceeded(), MarkFailed()
//
// **Observers** (status feed, run report) use Graph to:
//   - Read state: NodeRecord(), Snapshot(), Subscribe()
//
// # Thread-Safety
//
// Implementations MUST be thread-safe, as multiple goroutines execute nodes in
// parallel and simultaneously query/update the graph.
type Graph interface {
	// Node retrieves a node by id.
	Node(ctx context.Context, id string) (*model.Node, bool)

	// AllNodes returns every node in insertion order.
	AllNodes(ctx context.Context) []*model.Node

	// StartNode returns the unique start node, or a configuration error.
	StartNode(ctx context.Context) (*model.Node, error)

	// Outgoing returns the connections leaving a node, in insertion order.
	Outgoing(ctx context.Context, id string) []model.Connection

	// Incoming returns the connections entering a node, in input port order.
	Incoming(ctx context.Context, id string) []model.Connection

	// ResolveEndpoint returns the port addressed by nodeID and portID.
	ResolveEndpoint(ctx context.Context, nodeID, portID string) (*model.Port, error)

	// Reachable returns the ids of every node reachable from fromID,
	// including fromID itself, in breadth-first order.
	Reachable(ctx context.Context, fromID string) []string

	// DetectCycles reports a cycle among the nodes reachable from fromID.
	// The returned error wraps model.ErrCycleDetected.
	DetectCycles(ctx context.Context, fromID string) error

	// NodeStatus returns the current status of a node. Unknown nodes are Idle.
	NodeStatus(ctx context.Context, id string) model.Status

	// NodeRecord returns the current status and last output of a node.
	NodeRecord(ctx context.Context, id string) nodestore.Record

	// MarkRunning transitions a node to Running. The last output of a
	// previous execution stays visible until the node finishes.
	MarkRunning(ctx context.Context, id string) error

	// MarkSucceeded transitions a node to Success and records its output.
	MarkSucceeded(ctx context.Context, id string, output model.Payload) error

	// MarkFailed transitions a node to Failed and records {"error": msg}.
	MarkFailed(ctx context.Context, id string, nodeErr error) error

	// ResetAll puts every node of the topology back to Idle.
	ResetAll(ctx context.Context) error

	// Snapshot returns the records of every node of the topology.
	Snapshot(ctx context.Context) map[string]nodestore.Record

	// Subscribe registers an observer of node state changes.
	Subscribe(obs nodestore.Observer)
}
