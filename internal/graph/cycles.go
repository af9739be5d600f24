package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodeflow/internal/model"
)

// Reachable returns every node id reachable from fromID in breadth-first order.
func (m *Manager) Reachable(ctx context.Context, fromID string) []string {
	if _, ok := m.topology.Node(ctx, fromID); !ok {
		return nil
	}

	seen := map[string]bool{fromID: true}
	order := []string{fromID}
	for i := 0; i < len(order); i++ {
		for _, c := range m.topology.OutgoingConnections(ctx, order[i]) {
			if !seen[c.To.NodeID] {
				seen[c.To.NodeID] = true
				order = append(order, c.To.NodeID)
			}
		}
	}
	return order
}

// DetectCycles checks for circular connections reachable from fromID using DFS.
func (m *Manager) DetectCycles(ctx context.Context, fromID string) error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		visiting[id] = true
		for _, c := range m.topology.OutgoingConnections(ctx, id) {
			next := c.To.NodeID
			if visiting[next] {
				return fmt.Errorf("%w involving '%s'", model.ErrCycleDetected, next)
			}
			if !visited[next] {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		delete(visiting, id)
		visited[id] = true
		return nil
	}

	if _, ok := m.topology.Node(ctx, fromID); !ok {
		return fmt.Errorf("node '%s': %w", fromID, model.ErrNodeNotFound)
	}
	return visit(fromID)
}
