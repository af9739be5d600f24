// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Node and Port, the vertices of a workflow graph.
//
// A node's shape (how many inputs and outputs it has) is fixed by its kind:
// start nodes only produce, branch nodes produce on exactly two labelled ports,
// and merge nodes are the only kind allowed to consume from more than one
// input. Validate enforces that shape so the engine can rely on it without
// re-checking during execution.
package model

import "fmt"

// Direction tells whether a port consumes or produces payloads.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Port is a connection point on a node. Its id is unique within the node.
type Port struct {
	ID        string
	Direction Direction
	// Label is optional display text. Branch nodes use it to tell the
	// true and false ports apart.
	Label string
}

// Position is the editor canvas location of a node. The engine ignores it.
type Position struct {
	X, Y float64
}

// Node is a single vertex of the workflow graph.
type Node struct {
	ID         string
	Kind       Kind
	Name       string
	Properties Properties
	Inputs     []Port
	Outputs    []Port
	Position   Position
}

// NewNode creates a node of the given kind with the default port layout for
// that kind. A nil props value is replaced with the kind's zero properties.
func NewNode(id string, kind Kind, props Properties) *Node {
	if props == nil {
		props = ZeroProperties(kind)
	}
	mergeInputs := 0
	if mp, ok := props.(MergeProperties); ok {
		mergeInputs = mp.Inputs
	}
	inputs, outputs := DefaultPorts(kind, mergeInputs)
	return &Node{
		ID:         id,
		Kind:       kind,
		Name:       id,
		Properties: props,
		Inputs:     inputs,
		Outputs:    outputs,
	}
}

// InputPort returns the input port with the given id.
func (n *Node) InputPort(id string) (*Port, bool) {
	return findPort(n.Inputs, id)
}

// OutputPort returns the output port with the given id.
func (n *Node) OutputPort(id string) (*Port, bool) {
	return findPort(n.Outputs, id)
}

// Port returns the port with the given id, searching inputs first.
func (n *Node) Port(id string) (*Port, bool) {
	if p, ok := n.InputPort(id); ok {
		return p, true
	}
	return n.OutputPort(id)
}

// OutputPortByLabel finds an output port by its label, falling back to the
// port id when no port carries the label.
func (n *Node) OutputPortByLabel(label string) (*Port, bool) {
	for i := range n.Outputs {
		if n.Outputs[i].Label == label {
			return &n.Outputs[i], true
		}
	}
	return n.OutputPort(label)
}

// InputIndex returns the position of an input port, or -1.
func (n *Node) InputIndex(id string) int {
	for i := range n.Inputs {
		if n.Inputs[i].ID == id {
			return i
		}
	}
	return -1
}

func findPort(ports []Port, id string) (*Port, bool) {
	for i := range ports {
		if ports[i].ID == id {
			return &ports[i], true
		}
	}
	return nil, false
}

// Validate checks the node's identity, kind, port shape and properties.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node id must not be empty")
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("node '%s': %w: %q", n.ID, ErrUnknownKind, n.Kind)
	}

	seen := make(map[string]struct{}, len(n.Inputs)+len(n.Outputs))
	for _, p := range append(append([]Port{}, n.Inputs...), n.Outputs...) {
		if p.ID == "" {
			return fmt.Errorf("node '%s' has a port with an empty id", n.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("node '%s' declares port '%s' more than once", n.ID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	in, out := len(n.Inputs), len(n.Outputs)
	switch n.Kind {
	case KindStart:
		if in != 0 || out != 1 {
			return fmt.Errorf("start node '%s' must have 0 inputs and 1 output, got %d/%d", n.ID, in, out)
		}
	case KindSimple, KindHTTP:
		if in != 1 || out != 1 {
			return fmt.Errorf("%s node '%s' must have 1 input and 1 output, got %d/%d", n.Kind, n.ID, in, out)
		}
	case KindBranch:
		if in != 1 || out != 2 {
			return fmt.Errorf("branch node '%s' must have 1 input and 2 outputs, got %d/%d", n.ID, in, out)
		}
		if _, ok := n.OutputPortByLabel(PortTrue); !ok {
			return fmt.Errorf("branch node '%s' has no 'true' output port", n.ID)
		}
		if _, ok := n.OutputPortByLabel(PortFalse); !ok {
			return fmt.Errorf("branch node '%s' has no 'false' output port", n.ID)
		}
	case KindMerge:
		if in < 2 || out != 1 {
			return fmt.Errorf("merge node '%s' must have at least 2 inputs and 1 output, got %d/%d", n.ID, in, out)
		}
	}

	if n.Properties == nil {
		return fmt.Errorf("node '%s': %w: missing properties", n.ID, ErrInvalidProperties)
	}
	if n.Properties.Kind() != n.Kind {
		return fmt.Errorf("node '%s': %w: %s properties on a %s node", n.ID, ErrInvalidProperties, n.Properties.Kind(), n.Kind)
	}
	if err := ValidateProperties(n.Properties); err != nil {
		return fmt.Errorf("node '%s': %w", n.ID, err)
	}
	return nil
}
