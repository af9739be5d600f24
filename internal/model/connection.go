// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import (
	"fmt"
	"strings"
)

// Endpoint addresses one port of one node.
type Endpoint struct {
	NodeID string
	PortID string
}

// String renders the endpoint in its canonical "node.port" form.
func (e Endpoint) String() string {
	return e.NodeID + "." + e.PortID
}

// ParseEndpoint parses the canonical "node.port" form. The port is the text
// after the last dot, so node ids may themselves contain dots.
func ParseEndpoint(raw string) (Endpoint, error) {
	i := strings.LastIndex(raw, ".")
	if i <= 0 || i == len(raw)-1 {
		return Endpoint{}, fmt.Errorf("%w: endpoint %q must have the form 'node.port'", ErrInvalidConnection, raw)
	}
	return Endpoint{NodeID: raw[:i], PortID: raw[i+1:]}, nil
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	From Endpoint
	To   Endpoint
}

// String renders the connection as "from -> to".
func (c Connection) String() string {
	return c.From.String() + " -> " + c.To.String()
}
