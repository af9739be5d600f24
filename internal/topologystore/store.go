// Package topologystore defines the interface for storing and retrieving the
// static structure of a workflow graph.
//
// # Why Topology Store Exists
//
// The topology store implements a critical separation of concerns in nodeflow:
// it isolates the **read-only graph shape** (nodes, ports and connections)
// from the **mutable execution state** (status, last output) managed by nodestore.
//
// This separation provides several architectural benefits:
//   - **Clarity:** Graph structure queries (scheduler) don't mix with state updates (executor)
//   - **Thread-Safety:** Read-heavy topology queries can use RLocks without contention from frequent state writes
//   - **Testability:** Graph structure can be validated independently of execution state
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per session
//  2. **Populated** from a model.Workflow (nodes first, then connections)
//  3. **Read-only** during runs (the scheduler walks outgoing connections, the
//     condition evaluator resolves ports, merges count incoming connections)
//  4. **Discarded** when the session ends
package topologystore

import (
	"context"

	"github.com/specialistvlad/nodeflow/internal/model"
)

// Store is the interface for managing the static topology of a workflow graph.
//
// This interface does NOT manage dynamic execution state (node status, outputs).
// That responsibility belongs to nodestore.Store.
//
// # Thread-Safety Requirements
//
// Implementations MUST be thread-safe. Many goroutines read the same nodes and
// connections concurrently while a run fans out.
//
// # Typical Implementation
//
// See internal/inmemorytopology for the reference in-memory implementation using
// maps and sync.RWMutex for thread-safe concurrent access.
type Store interface {
	// AddNode registers a node in the topology.
	//
	// The node's shape is validated before it is stored. Adding the same node
	// twice (by ID) is idempotent and does not return an error.
	AddNode(ctx context.Context, n *model.Node) error

	// AddConnection creates a directed edge between two ports.
	//
	// Both nodes must already exist. The source must be an output port and the
	// target an input port. An input port may be the target of at most one
	// connection; a second one fails with model.ErrFanInViolation. Fan-in is
	// enforced here, at creation time, and not re-checked during execution.
	AddConnection(ctx context.Context, c model.Connection) error

	// Node retrieves a single node by id.
	Node(ctx context.Context, id string) (*model.Node, bool)

	// AllNodes returns every node in insertion order. The returned slice is a
	// snapshot and safe for the caller to iterate.
	AllNodes(ctx context.Context) []*model.Node

	// FindStartNode returns the unique start node.
	//
	// Returns model.ErrNoStartNode when the graph has none and
	// model.ErrMultipleStartNodes when it has more than one.
	FindStartNode(ctx context.Context) (*model.Node, error)

	// OutgoingConnections returns the connections leaving a node, in the
	// order they were added. Unknown nodes yield an empty slice.
	OutgoingConnections(ctx context.Context, nodeID string) []model.Connection

	// IncomingConnections returns the connections entering a node, ordered by
	// the position of the target input port on the node.
	IncomingConnections(ctx context.Context, nodeID string) []model.Connection

	// ResolveEndpoint looks up a port of a node.
	//
	// Returns model.ErrNodeNotFound or model.ErrPortNotFound.
	ResolveEndpoint(ctx context.Context, nodeID, portID string) (*model.Port, error)
}
