// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Workflow structure, the root container for a graph.
//
// A Workflow is the persisted shape of a graph: nodes and connections, nothing
// else. It is what loaders produce and what the session turns into a
// topology. Validate performs every check that can be made without executing
// anything, so a workflow that passes it can be handed to the engine as is.
package model

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Workflow is a complete graph snapshot.
type Workflow struct {
	Name        string
	Nodes       []*Node
	Connections []Connection
}

// NewWorkflow creates and returns an empty Workflow.
func NewWorkflow(name string) *Workflow {
	return &Workflow{
		Name:        name,
		Nodes:       []*Node{},
		Connections: []Connection{},
	}
}

// Node returns the node with the given id.
func (w *Workflow) Node(id string) (*Node, bool) {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// Connect appends a connection between two endpoints given in "node.port" form.
func (w *Workflow) Connect(from, to string) error {
	f, err := ParseEndpoint(from)
	if err != nil {
		return err
	}
	t, err := ParseEndpoint(to)
	if err != nil {
		return err
	}
	w.Connections = append(w.Connections, Connection{From: f, To: t})
	return nil
}

// Validate reports every problem it can find in the workflow at once.
// Start-node uniqueness is not checked here; it is a run-time configuration
// error so that partially edited graphs can still be stored.
func (w *Workflow) Validate() error {
	var result *multierror.Error

	byID := make(map[string]*Node, len(w.Nodes))
	for _, n := range w.Nodes {
		if err := n.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
		if _, dup := byID[n.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate node id '%s'", n.ID))
		}
		byID[n.ID] = n
	}

	targets := make(map[Endpoint]Connection, len(w.Connections))
	for _, c := range w.Connections {
		from, ok := byID[c.From.NodeID]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("connection %s: source: %w", c, ErrNodeNotFound))
			continue
		}
		to, ok := byID[c.To.NodeID]
		if !ok {
			result = multierror.Append(result, fmt.Errorf("connection %s: target: %w", c, ErrNodeNotFound))
			continue
		}
		if _, ok := from.OutputPort(c.From.PortID); !ok {
			result = multierror.Append(result, fmt.Errorf("connection %s: source output '%s': %w", c, c.From.PortID, ErrPortNotFound))
		}
		if _, ok := to.InputPort(c.To.PortID); !ok {
			result = multierror.Append(result, fmt.Errorf("connection %s: target input '%s': %w", c, c.To.PortID, ErrPortNotFound))
		}
		if prev, taken := targets[c.To]; taken {
			result = multierror.Append(result, fmt.Errorf("connection %s: %w (already fed by %s)", c, ErrFanInViolation, prev.From))
		}
		targets[c.To] = c
	}

	return result.ErrorOrNil()
}
