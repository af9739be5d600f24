package inmemorytopology

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/nodeflow/internal/model"
	"github.com/specialistvlad/nodeflow/internal/topologystore"
)

// Store implements the topologystore.Store interface using maps and a mutex
// for thread-safe concurrent access.
type Store struct {
	mu       sync.RWMutex
	nodes    map[string]*model.Node
	order    []string
	outgoing map[string][]model.Connection     // Key: source node ID
	incoming map[string][]model.Connection     // Key: target node ID
	fedPorts map[model.Endpoint]model.Endpoint // Key: target input, Value: its source
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes:    make(map[string]*model.Node),
		outgoing: make(map[string][]model.Connection),
		incoming: make(map[string][]model.Connection),
		fedPorts: make(map[model.Endpoint]model.Endpoint),
	}
}

// AddNode adds a new node to the store.
func (s *Store) AddNode(ctx context.Context, n *model.Node) error {
	if n == nil {
		return fmt.Errorf("cannot add a nil node to topology")
	}
	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		// Adding the same node twice is not an error, it's idempotent.
		return nil
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return nil
}

// AddConnection creates a connection from an output port to an input port.
func (s *Store) AddConnection(ctx context.Context, c model.Connection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, exists := s.nodes[c.From.NodeID]
	if !exists {
		return fmt.Errorf("connection source node '%s' not found in topology: %w", c.From.NodeID, model.ErrNodeNotFound)
	}
	to, exists := s.nodes[c.To.NodeID]
	if !exists {
		return fmt.Errorf("connection target node '%s' not found in topology: %w", c.To.NodeID, model.ErrNodeNotFound)
	}
	if _, ok := from.OutputPort(c.From.PortID); !ok {
		return fmt.Errorf("connection source '%s' is not an output port: %w", c.From, model.ErrPortNotFound)
	}
	if _, ok := to.InputPort(c.To.PortID); !ok {
		return fmt.Errorf("connection target '%s' is not an input port: %w", c.To, model.ErrPortNotFound)
	}
	if src, taken := s.fedPorts[c.To]; taken {
		return fmt.Errorf("cannot connect '%s' to '%s', already fed by '%s': %w", c.From, c.To, src, model.ErrFanInViolation)
	}

	s.fedPorts[c.To] = c.From
	s.outgoing[c.From.NodeID] = append(s.outgoing[c.From.NodeID], c)

	in := append(s.incoming[c.To.NodeID], c)
	sort.SliceStable(in, func(i, j int) bool {
		return to.InputIndex(in[i].To.PortID) < to.InputIndex(in[j].To.PortID)
	})
	s.incoming[c.To.NodeID] = in
	return nil
}

// Node retrieves a single node by its id.
func (s *Store) Node(ctx context.Context, id string) (*model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	return n, ok
}

// AllNodes returns a slice of all nodes in the topology, in insertion order.
func (s *Store) AllNodes(ctx context.Context) []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*model.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, s.nodes[id])
	}
	return nodes
}

// FindStartNode returns the only node of kind start.
func (s *Store) FindStartNode(ctx context.Context) (*model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var start *model.Node
	for _, id := range s.order {
		n := s.nodes[id]
		if n.Kind != model.KindStart {
			continue
		}
		if start != nil {
			return nil, fmt.Errorf("'%s' and '%s': %w", start.ID, n.ID, model.ErrMultipleStartNodes)
		}
		start = n
	}
	if start == nil {
		return nil, model.ErrNoStartNode
	}
	return start, nil
}

// OutgoingConnections returns the connections leaving the given node.
func (s *Store) OutgoingConnections(ctx context.Context, nodeID string) []model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Connection(nil), s.outgoing[nodeID]...)
}

// IncomingConnections returns the connections entering the given node.
func (s *Store) IncomingConnections(ctx context.Context, nodeID string) []model.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]model.Connection(nil), s.incoming[nodeID]...)
}

// ResolveEndpoint returns the port identified by nodeID and portID.
func (s *Store) ResolveEndpoint(ctx context.Context, nodeID, portID string) (*model.Port, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("node '%s': %w", nodeID, model.ErrNodeNotFound)
	}
	p, ok := n.Port(portID)
	if !ok {
		return nil, fmt.Errorf("port '%s' on node '%s': %w", portID, nodeID, model.ErrPortNotFound)
	}
	return p, nil
}
